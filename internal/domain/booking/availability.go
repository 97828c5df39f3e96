package booking

import (
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

// parseMinutes converts a "15:04" wall-clock string to minutes since midnight.
func parseMinutes(hm string) (int, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ValidateAvailability checks that the proposed interval is contained in the
// tutor's weekly availability. The weekday is taken in UTC, and only the
// first active slot for that weekday is considered: tutors publish at most
// one open window per day.
func ValidateAvailability(
	scheduledAt time.Time,
	durationMin int,
	slots []models.AvailabilitySlot,
) error {

	utc := scheduledAt.UTC()
	weekday := int(utc.Weekday())

	var slot *models.AvailabilitySlot
	for i := range slots {
		if slots[i].Active && slots[i].Weekday == weekday {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return httperr.ErrBusinessf(
			httperr.CodeNoAvailability,
			"tutor has no availability on %s", utc.Weekday(),
		)
	}

	slotStart, okStart := parseMinutes(slot.StartTime)
	slotEnd, okEnd := parseMinutes(slot.EndTime)
	if !okStart || !okEnd {
		return httperr.ErrBusinessf(
			httperr.CodeNoAvailability,
			"tutor has no usable availability on %s", utc.Weekday(),
		)
	}

	start := utc.Hour()*60 + utc.Minute()
	end := start + durationMin

	// Both endpoints inclusive: a session may begin exactly at the window
	// start and end exactly at the window end.
	if start < slotStart || end > slotEnd {
		return httperr.ErrBusinessf(
			httperr.CodeOutsideWindow,
			"session falls outside the tutor's %s-%s window",
			slot.StartTime, slot.EndTime,
		)
	}

	return nil
}
