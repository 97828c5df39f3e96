package booking

import (
	"math"
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/httperr"
)

const (
	// MinAdvance is how far in the future a booking must start. A start of
	// exactly now+MinAdvance is allowed; one second less is rejected.
	MinAdvance = 24 * time.Hour

	// MaxAdvance is the latest a booking may be scheduled.
	MaxAdvance = 90 * 24 * time.Hour

	// LateCancelWindow marks a cancellation as late when less than this
	// remains before the scheduled start.
	LateCancelWindow = 12 * time.Hour

	// RescheduleCutoff is the minimum lead time for moving a booking.
	RescheduleCutoff = 4 * time.Hour
)

// SessionDurations are the only durations a session can be booked for.
var SessionDurations = []int{30, 60, 90}

func ValidateDuration(durationMin int) error {
	for _, d := range SessionDurations {
		if d == durationMin {
			return nil
		}
	}
	return httperr.ErrBusinessf(
		httperr.CodeInvalidDuration,
		"session duration must be 30, 60 or 90 minutes",
	)
}

// CalculatePrice derives the session price from the tutor's hourly rate,
// rounded half-up to cents. The result is snapshotted onto the booking at
// creation and never recomputed.
func CalculatePrice(durationMin int, hourlyRate float64) float64 {
	raw := hourlyRate * float64(durationMin) / 60
	return math.Round(raw*100) / 100
}

// ValidateBookingTime enforces the advance-booking window against now.
func ValidateBookingTime(scheduledAt, now time.Time) error {
	if scheduledAt.Before(now.Add(MinAdvance)) {
		return httperr.ErrBusinessf(
			httperr.CodeTooSoon,
			"sessions must be booked at least 24 hours in advance",
		)
	}
	if scheduledAt.After(now.Add(MaxAdvance)) {
		return httperr.ErrBusinessf(
			httperr.CodeTooFar,
			"sessions cannot be booked more than 90 days in advance",
		)
	}
	return nil
}
