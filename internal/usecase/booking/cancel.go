package booking

import (
	"context"
	"log"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/timezone"
)

type CancelBooking struct {
	repo     domain.Repository
	policy   domain.PenaltyPolicy
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	policy domain.PenaltyPolicy,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		policy:   policy,
		audit:    audit,
		notifier: notifier,
	}
}

// Execute cancels a live booking. Either party may cancel their own booking.
// A captured payment is NOT refunded here; refunds are explicit.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	actorUserID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	actorIsStudent := b.StudentID == actorUserID
	if !actorIsStudent {
		profile, err := uc.repo.GetTutorProfileByUser(ctx, actorUserID)
		if err != nil || profile.ID != b.TutorProfileID {
			return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "booking not found")
		}
	}

	now := timezone.Now()
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	// Late cancellations by the student feed the rolling-window penalty
	// policy. Tutor cancellations never penalize the student.
	if actorIsStudent && b.IsLateCancellation != nil && *b.IsLateCancellation {
		if err := uc.policy.RecordLateCancellation(ctx, b.StudentID, now); err != nil {
			log.Printf("late-cancellation record failed for student %d: %v", b.StudentID, err)
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorUserID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"late":       b.IsLateCancellation != nil && *b.IsLateCancellation,
			"by_student": actorIsStudent,
		},
	})

	uc.notifyCancelled(ctx, b, actorIsStudent)

	return b, nil
}

// notifyCancelled tells the party who did not cancel.
func (uc *CancelBooking) notifyCancelled(
	ctx context.Context,
	b *models.Booking,
	byStudent bool,
) {
	var recipientID uint
	if byStudent {
		profile, err := uc.repo.GetTutorProfile(ctx, b.TutorProfileID)
		if err != nil {
			return
		}
		recipientID = profile.UserID
	} else {
		recipientID = b.StudentID
	}

	recipient, err := uc.repo.GetUser(ctx, recipientID)
	if err != nil {
		return
	}

	uc.notifier.Dispatch(notification.Event{
		Kind:      notification.KindBookingCancelled,
		Recipient: recipient.Email,
		Data: map[string]any{
			"booking_id":   b.ID,
			"scheduled_at": b.ScheduledAt,
		},
	})
}
