package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
	"github.com/supermarios77/Linglix-sub002/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	StudentID      uint
	TutorProfileID uint
	ScheduledAt    time.Time
	DurationMin    int
	Notes          string
}

// CheckoutConfig carries the pieces of the hosted checkout that are
// deployment configuration rather than booking data.
type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	FailureURL string
	SessionTTL time.Duration
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	policy   domain.PenaltyPolicy
	gateway  payment.Gateway
	checkout CheckoutConfig
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	policy domain.PenaltyPolicy,
	gateway payment.Gateway,
	checkout CheckoutConfig,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		policy:   policy,
		gateway:  gateway,
		checkout: checkout,
		audit:    audit,
		notifier: notifier,
	}
}

type CreateBookingResult struct {
	Booking     *models.Booking
	CheckoutURL string
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	now := timezone.Now()
	scheduledAt := in.ScheduledAt.UTC()

	// --------------------------------------------------
	// Penalty gate
	// --------------------------------------------------
	penalized, err := uc.policy.IsPenalized(ctx, in.StudentID, now)
	if err != nil {
		return nil, err
	}
	if penalized {
		return nil, httperr.ErrBusinessf(
			httperr.CodePenalized,
			"your account is temporarily blocked from booking due to repeated late cancellations",
		)
	}

	// --------------------------------------------------
	// Tutor gate
	// --------------------------------------------------
	profile, err := uc.repo.GetTutorProfile(ctx, in.TutorProfileID)
	if err != nil {
		return nil, err
	}
	if !profile.Active || !profile.Approved {
		return nil, httperr.ErrBusinessf(
			httperr.CodeTutorUnavailable,
			"this tutor is not currently accepting bookings",
		)
	}

	// --------------------------------------------------
	// Time, availability and conflict rules
	// --------------------------------------------------
	if err := domain.ValidateDuration(in.DurationMin); err != nil {
		return nil, err
	}
	if err := domain.ValidateBookingTime(scheduledAt, now); err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListActiveSlots(ctx, in.TutorProfileID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAvailability(scheduledAt, in.DurationMin, slots); err != nil {
		return nil, err
	}

	// Snapshot check first: it gives the user fast, specific feedback
	// without paying for a transaction on every rejected attempt.
	existing, err := uc.repo.ListActiveBookings(ctx, in.TutorProfileID)
	if err != nil {
		return nil, err
	}
	if conflict := domain.FindConflict(scheduledAt, in.DurationMin, existing); conflict != nil {
		return nil, httperr.ErrBusinessf(
			httperr.CodeTimeConflict,
			"the tutor already has a session from %s to %s",
			conflict.ScheduledAt.Format("15:04"),
			conflict.EndsAt().Format("15:04"),
		)
	}

	// --------------------------------------------------
	// Price snapshot
	// --------------------------------------------------
	price := domain.CalculatePrice(in.DurationMin, profile.HourlyRate)

	// --------------------------------------------------
	// Create under lock (closes the race with the snapshot check)
	// --------------------------------------------------
	b := &models.Booking{
		StudentID:      in.StudentID,
		TutorProfileID: in.TutorProfileID,
		ScheduledAt:    scheduledAt,
		DurationMin:    in.DurationMin,
		Status:         string(domain.InitialStatus()),
		Price:          price,
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateBookingLocked(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Checkout session (after commit; no lock held across the call).
	// A gateway failure here triggers the compensating delete: a
	// PENDING booking with no way to pay must not keep holding the slot.
	// --------------------------------------------------
	session, err := uc.gateway.CreateCheckoutSession(ctx, payment.CheckoutInput{
		BookingID:   b.ID,
		Description: fmt.Sprintf("Tutoring session, %d minutes", b.DurationMin),
		Amount:      b.Price,
		Currency:    uc.checkout.Currency,
		SuccessURL:  uc.checkout.SuccessURL,
		FailureURL:  uc.checkout.FailureURL,
		ExpiresAt:   now.Add(uc.checkout.SessionTTL),
	})
	if err != nil {
		log.Printf("checkout session failed for booking %d, rolling back: %v", b.ID, err)
		if delErr := uc.repo.DeleteBooking(ctx, b.ID); delErr != nil {
			// The reconciler will not pick this up (no payment id); it
			// needs operator attention.
			log.Printf("compensating delete failed for booking %d: %v", b.ID, delErr)
		}
		uc.audit.Dispatch(audit.Event{
			UserID:   &in.StudentID,
			Action:   "booking_rolled_back",
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: map[string]any{"reason": err.Error()},
		})
		return nil, httperr.ErrBusinessf(
			httperr.CodePaymentUnavailable,
			"could not start the payment for this booking, please try again",
		)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.StudentID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"tutor_profile_id": b.TutorProfileID,
			"scheduled_at":     b.ScheduledAt,
			"price":            b.Price,
			"checkout_session": session.ID,
		},
	})

	if student, err := uc.repo.GetUser(ctx, in.StudentID); err == nil {
		uc.notifier.Dispatch(notification.Event{
			Kind:      notification.KindBookingCreated,
			Recipient: student.Email,
			Data: map[string]any{
				"booking_id":   b.ID,
				"scheduled_at": b.ScheduledAt,
				"checkout_url": session.URL,
			},
		})
	}

	return &CreateBookingResult{
		Booking:     b,
		CheckoutURL: session.URL,
	}, nil
}
