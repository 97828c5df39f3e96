package booking

import (
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/models"
)

// Overlaps reports whether the half-open intervals [a,b) and [c,d) intersect.
func Overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}

// FindConflict returns the first existing booking whose interval overlaps the
// proposed [scheduledAt, scheduledAt+duration) window. Cancelled and refunded
// bookings no longer hold the slot and are ignored. The scan order follows
// the input order, so results are deterministic for a given listing.
func FindConflict(
	scheduledAt time.Time,
	durationMin int,
	existing []models.Booking,
) *models.Booking {

	start := scheduledAt
	end := scheduledAt.Add(time.Duration(durationMin) * time.Minute)

	for i := range existing {
		other := &existing[i]
		if IsInactive(Status(other.Status)) {
			continue
		}
		if Overlaps(start, end, other.ScheduledAt, other.EndsAt()) {
			return other
		}
	}
	return nil
}
