package booking

import (
	"context"
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/timezone"
)

type RescheduleBooking struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
}

func NewRescheduleBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
	}
}

// Execute moves a live booking to a new start time, at least 4h before the
// current start. The new time goes through the same validation as a create,
// including the locked re-check. The price stays the creation-time snapshot.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	studentID uint,
	bookingID uint,
	newStart time.Time,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.StudentID != studentID {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "booking not found")
	}

	now := timezone.Now()
	newStart = newStart.UTC()

	if err := domain.CanReschedule(b, now); err != nil {
		return nil, err
	}
	if err := domain.ValidateBookingTime(newStart, now); err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListActiveSlots(ctx, b.TutorProfileID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAvailability(newStart, b.DurationMin, slots); err != nil {
		return nil, err
	}

	existing, err := uc.repo.ListActiveBookings(ctx, b.TutorProfileID)
	if err != nil {
		return nil, err
	}
	others := existing[:0]
	for _, other := range existing {
		if other.ID != b.ID {
			others = append(others, other)
		}
	}
	if conflict := domain.FindConflict(newStart, b.DurationMin, others); conflict != nil {
		return nil, httperr.ErrBusinessf(
			httperr.CodeTimeConflict,
			"the tutor already has a session at that time",
		)
	}

	oldStart := b.ScheduledAt
	if err := uc.repo.RescheduleLocked(ctx, b, newStart); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &studentID,
		Action:   "booking_rescheduled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"from": oldStart,
			"to":   newStart,
		},
	})

	if profile, err := uc.repo.GetTutorProfile(ctx, b.TutorProfileID); err == nil {
		if tutor, err := uc.repo.GetUser(ctx, profile.UserID); err == nil {
			uc.notifier.Dispatch(notification.Event{
				Kind:      notification.KindBookingRescheduled,
				Recipient: tutor.Email,
				Data: map[string]any{
					"booking_id": b.ID,
					"from":       oldStart,
					"to":         newStart,
				},
			})
		}
	}

	return b, nil
}
