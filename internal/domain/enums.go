package domain

type CadenceKind string

const (
	CadenceOnce          CadenceKind = "once"
	CadenceDaily         CadenceKind = "daily"
	CadenceEveryOtherDay CadenceKind = "every_other_day"
	CadenceWeekly        CadenceKind = "weekly"
	CadenceBiweekly      CadenceKind = "biweekly"
	CadenceMonthly       CadenceKind = "monthly"
	CadenceCustom        CadenceKind = "custom"
)

// ValidCadenceKinds is the canonical set of accepted cadence discriminators.
var ValidCadenceKinds = map[CadenceKind]bool{
	CadenceOnce: true, CadenceDaily: true, CadenceEveryOtherDay: true,
	CadenceWeekly: true, CadenceBiweekly: true, CadenceMonthly: true,
	CadenceCustom: true,
}

type Window string

const (
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
	WindowEvening   Window = "evening"
	WindowNight     Window = "night"
	WindowNone      Window = "none"
)

var validWindows = map[Window]bool{
	WindowMorning: true, WindowAfternoon: true, WindowEvening: true,
	WindowNight: true, WindowNone: true,
}

type OverlapMode string

const (
	OverlapNone  OverlapMode = "none"
	OverlapSoft  OverlapMode = "soft"
	OverlapAllow OverlapMode = "allow"
)

// ConflictMode selects how the allocator treats effort that does not fit.
type ConflictMode string

const (
	ConflictPush    ConflictMode = "push"
	ConflictShorten ConflictMode = "shorten"
	ConflictDecline ConflictMode = "decline"
)

type DraftStatus string

const (
	DraftProposed DraftStatus = "proposed"
	DraftAccepted DraftStatus = "accepted"
	DraftDeclined DraftStatus = "declined"
)

type TaskStatus string

const (
	TaskScheduled   TaskStatus = "scheduled"
	TaskPartial     TaskStatus = "partial"
	TaskUnscheduled TaskStatus = "unscheduled"
	TaskBlocked     TaskStatus = "blocked"
)

// ParseOverlapMode maps a config or flag value to an OverlapMode. Empty means none.
func ParseOverlapMode(s string) (OverlapMode, bool) {
	switch OverlapMode(s) {
	case "", OverlapNone:
		return OverlapNone, true
	case OverlapSoft, OverlapAllow:
		return OverlapMode(s), true
	}
	return "", false
}

// ParseConflictMode maps a config or flag value to a ConflictMode. Empty means push.
func ParseConflictMode(s string) (ConflictMode, bool) {
	switch ConflictMode(s) {
	case "", ConflictPush:
		return ConflictPush, true
	case ConflictShorten, ConflictDecline:
		return ConflictMode(s), true
	}
	return "", false
}

// ParseDraftStatus validates a stored or user-supplied draft status.
func ParseDraftStatus(s string) (DraftStatus, bool) {
	switch DraftStatus(s) {
	case DraftProposed, DraftAccepted, DraftDeclined:
		return DraftStatus(s), true
	}
	return "", false
}
