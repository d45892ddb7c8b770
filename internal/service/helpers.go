package service

import (
	"time"

	"github.com/alexanderramin/timeblock/internal/domain"
)

const defaultTimezone = "UTC"

func resolveNow(now *time.Time) time.Time {
	if now != nil {
		return *now
	}
	return time.Now().UTC()
}

func timezoneOrDefault(tz string) string {
	if tz == "" {
		return defaultTimezone
	}
	return tz
}

// busyFromDrafts turns accepted drafts into busy intervals, skipping the
// series being proposed so a rerun reproduces its own drafts.
func busyFromDrafts(drafts []*domain.StoredDraft, skipSeries string, from, to time.Time) []domain.BusyInterval {
	var out []domain.BusyInterval
	for _, d := range drafts {
		if d.SeriesID == skipSeries {
			continue
		}
		iv := domain.BusyInterval{Start: d.StartsAt, End: d.EndsAt}
		if iv.Valid() && iv.Overlaps(from, to) {
			out = append(out, iv)
		}
	}
	return out
}
