package booking

import (
	"context"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
)

type ConfirmBooking struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
}

func NewConfirmBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
) *ConfirmBooking {
	return &ConfirmBooking{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
	}
}

// Execute confirms a pending booking. Only the tutor the booking belongs to
// may confirm it.
func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	tutorUserID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	profile, err := uc.repo.GetTutorProfileByUser(ctx, tutorUserID)
	if err != nil {
		return nil, err
	}
	if profile.ID != b.TutorProfileID {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "booking not found")
	}

	if err := domain.Confirm(b); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &tutorUserID,
		Action:   "booking_confirmed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	if student, err := uc.repo.GetUser(ctx, b.StudentID); err == nil {
		uc.notifier.Dispatch(notification.Event{
			Kind:      notification.KindBookingConfirmed,
			Recipient: student.Email,
			Data: map[string]any{
				"booking_id":   b.ID,
				"scheduled_at": b.ScheduledAt,
			},
		})
	}

	return b, nil
}
