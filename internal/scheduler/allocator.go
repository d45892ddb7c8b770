package scheduler

import (
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

const (
	// HorizonDays is the rolling window each task may be spread across.
	HorizonDays = 14
	// maxBlocksPerDay bounds the placement loop for a single task and day.
	maxBlocksPerDay = 96
)

// Allocation is what the engine placed for one task.
type Allocation struct {
	Events    []domain.PlannedEvent
	Allocated int
	Remaining int
}

// allocator carries the working busy set for one planning call. Placed
// blocks and breaks are appended so later tasks cannot reuse them; the set
// is never visible outside the call.
type allocator struct {
	now   time.Time
	loc   *time.Location
	prefs domain.PlannerPreferences
	busy  []domain.BusyInterval
}

func newAllocator(now time.Time, loc *time.Location, prefs domain.PlannerPreferences, existing []domain.ExistingEvent) *allocator {
	return &allocator{
		now:   now,
		loc:   loc,
		prefs: prefs,
		busy:  domain.BusyIntervals(existing),
	}
}

// DayWindow clamps the work window of day to the day itself, to now and to
// the task's own earliest start and latest end. ok is false when nothing
// of the window remains.
func DayWindow(day, now time.Time, task domain.PlannerTaskInput, prefs domain.PlannerPreferences, loc *time.Location) (start, end time.Time, ok bool) {
	start = timewin.At(day, prefs.WorkWindow.StartHour, 0, loc)
	end = timewin.At(day, prefs.WorkWindow.EndHour, 0, loc)
	dayEnd := timewin.StartOfDay(day, loc).AddDate(0, 0, 1)
	end = timewin.Earlier(end, dayEnd)
	start = timewin.Later(start, now)
	if task.EarliestStart != nil {
		start = timewin.Later(start, *task.EarliestStart)
	}
	if task.LatestEnd != nil {
		end = timewin.Earlier(end, *task.LatestEnd)
	}
	return start, end, end.After(start)
}

// FreeBlocks returns the gaps of [start, end) not covered by busy, in order.
func FreeBlocks(start, end time.Time, busy []domain.BusyInterval) []domain.BusyInterval {
	return timewin.FreeBlocks(start, end, busy)
}

// ShrinkBlock trims the context-switch buffer from the start of a free block
// and the travel buffer from its end. ok is false when the remainder is
// shorter than the minimum block.
func ShrinkBlock(b domain.BusyInterval, prefs domain.PlannerPreferences) (domain.BusyInterval, bool) {
	s := b.Start.Add(time.Duration(prefs.ContextSwitchBuffer()) * time.Minute)
	e := b.End.Add(-time.Duration(prefs.TravelBuffer()) * time.Minute)
	if e.Sub(s) < time.Duration(prefs.MinBlock())*time.Minute {
		return domain.BusyInterval{}, false
	}
	return domain.BusyInterval{Start: s, End: e}, true
}

// ChunkMinutes decides how much of the remaining effort goes into a block
// with available minutes. Shorten fills productively with at least a
// minimum block; push and decline take what fits. The result never exceeds
// the remaining effort.
func ChunkMinutes(available, remaining int, prefs domain.PlannerPreferences) int {
	var chunk int
	switch prefs.ConflictMode() {
	case domain.ConflictShorten:
		chunk = min(available, max(prefs.MinBlock(), min(remaining, available)))
	default:
		chunk = min(available, remaining)
	}
	return min(chunk, remaining)
}

// allocate walks the rolling horizon for one task and places its effort.
func (a *allocator) allocate(task domain.PlannerTaskInput, taskID string) Allocation {
	res := Allocation{Remaining: task.EffortMinutes}
	if res.Remaining <= 0 {
		res.Remaining = 0
		return res
	}

	today := timewin.StartOfDay(a.now, a.loc)
	for d := 0; d < HorizonDays && res.Remaining > 0; d++ {
		day := today.AddDate(0, 0, d)
		if !a.prefs.IsWorkDay(day.Weekday()) {
			continue
		}
		start, end, ok := DayWindow(day, a.now, task, a.prefs, a.loc)
		if !ok {
			continue
		}

		placed := a.fillDay(task, taskID, start, end, &res)
		if placed && a.prefs.ConflictMode() == domain.ConflictDecline {
			break
		}
	}
	return res
}

// fillDay places chunks into the day's free blocks until the effort is done
// or no block is large enough. It reports whether anything was placed.
func (a *allocator) fillDay(task domain.PlannerTaskInput, taskID string, start, end time.Time, res *Allocation) bool {
	placed := false
	for i := 0; i < maxBlocksPerDay && res.Remaining > 0; i++ {
		block, ok := a.nextBlock(start, end)
		if !ok {
			break
		}
		available := int(block.End.Sub(block.Start) / time.Minute)
		chunk := ChunkMinutes(available, res.Remaining, a.prefs)
		if chunk <= 0 {
			break
		}

		ev := domain.PlannedEvent{
			TaskID: taskID,
			Title:  task.Title,
			Start:  block.Start,
			End:    block.Start.Add(time.Duration(chunk) * time.Minute),
		}
		res.Events = append(res.Events, ev)
		res.Allocated += chunk
		res.Remaining -= chunk
		a.busy = append(a.busy, ev.AsExisting().Interval())
		if a.prefs.BreakMinutes > 0 && res.Remaining > 0 {
			a.busy = append(a.busy, domain.BusyInterval{
				Start: ev.End,
				End:   ev.End.Add(time.Duration(a.prefs.BreakMinutes) * time.Minute),
			})
		}
		placed = true
	}
	return placed
}

func (a *allocator) nextBlock(start, end time.Time) (domain.BusyInterval, bool) {
	for _, free := range FreeBlocks(start, end, a.busy) {
		if b, ok := ShrinkBlock(free, a.prefs); ok {
			return b, true
		}
	}
	return domain.BusyInterval{}, false
}
