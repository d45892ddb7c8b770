package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/timeblock/internal/domain"
)

const productID = "-//timeblock//draft export//EN"

// Export renders drafts as a PUBLISH calendar. Each VEVENT uses the draft
// id as UID and carries the series id so re-imports can be traced back.
// Accepted drafts are CONFIRMED, everything else TENTATIVE.
func Export(drafts []*domain.StoredDraft, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, d := range drafts {
		ev := cal.AddEvent(d.ID)
		ev.SetDtStampTime(stamp.UTC())
		ev.SetCreatedTime(d.CreatedAt.UTC())
		ev.SetStartAt(d.StartsAt.UTC())
		ev.SetEndAt(d.EndsAt.UTC())
		ev.SetSummary(d.Title)
		ev.SetDescription(fmt.Sprintf("%s (confidence %.2f)", d.Rationale, d.Confidence))
		if d.Status == domain.DraftAccepted {
			ev.SetStatus(ical.ObjectStatusConfirmed)
		} else {
			ev.SetStatus(ical.ObjectStatusTentative)
		}
		ev.AddProperty(propSeries, d.SeriesID)
	}
	return cal.Serialize()
}
