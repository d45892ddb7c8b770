// Package slotting turns expanded occurrence dates into concrete,
// non-conflicting event drafts: window seeding, slot probing, the daily cap
// and the final horizon clamp.
package slotting

import (
	"regexp"
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

const (
	// MaxProbes is the number of candidate starts tried per occurrence.
	MaxProbes = 16
	// ProbeStep is the distance between successive candidate starts.
	ProbeStep = 30 * time.Minute
	// DefaultSeedHour applies when neither a window nor a seed time is given.
	DefaultSeedHour = 18
)

var windowHours = map[domain.Window]int{
	domain.WindowMorning:   9,
	domain.WindowAfternoon: 13,
	domain.WindowEvening:   18,
	domain.WindowNight:     20,
}

// Seed returns the first candidate start for an occurrence date. An explicit
// seed time wins over the window.
func Seed(date time.Time, window domain.Window, seed *domain.ClockTime, loc *time.Location) time.Time {
	if seed != nil {
		return timewin.At(date, seed.Hour, seed.Minute, loc)
	}
	if h, ok := windowHours[window]; ok {
		return timewin.At(date, h, 0, loc)
	}
	return timewin.At(date, DefaultSeedHour, 0, loc)
}

// Prober searches for an acceptable start for one occurrence.
type Prober struct {
	Policy    domain.OverlapPolicy
	stackable bool
	notBefore time.Time
}

// NewProber binds an overlap policy to a goal. Candidates starting before
// notBefore are never accepted; pass the zero time to disable that check.
func NewProber(policy domain.OverlapPolicy, goal string, notBefore time.Time) (*Prober, error) {
	re, err := policy.Matcher()
	if err != nil {
		return nil, err
	}
	return &Prober{
		Policy:    policy,
		stackable: stackable(policy.Mode, re, goal),
		notBefore: notBefore,
	}, nil
}

func stackable(mode domain.OverlapMode, re *regexp.Regexp, goal string) bool {
	if mode == "" || mode == domain.OverlapNone || re == nil {
		return false
	}
	return re.MatchString(goal)
}

// Find probes up to MaxProbes starts from seed in ProbeStep increments and
// returns the first one whose [start, start+dur) is acceptable against busy.
// ok is false when every probe fails.
func (p *Prober) Find(seed time.Time, dur time.Duration, busy []domain.BusyInterval) (time.Time, bool) {
	for i := 0; i < MaxProbes; i++ {
		start := seed.Add(time.Duration(i) * ProbeStep)
		if start.Before(p.notBefore) {
			continue
		}
		if p.accepts(start, start.Add(dur), busy) {
			return start, true
		}
	}
	return time.Time{}, false
}

func (p *Prober) accepts(start, end time.Time, busy []domain.BusyInterval) bool {
	if !timewin.AnyOverlap(start, end, busy) {
		return true
	}
	if !p.stackable {
		return false
	}
	return timewin.OverlapMinutes(start, end, busy) <= p.Policy.MaxOverlapMinutes
}
