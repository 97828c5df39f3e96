package booking

import (
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking) error {
	if err := CanTransition(Status(b.Status), StatusConfirmed); err != nil {
		return err
	}
	b.Status = string(StatusConfirmed)
	return nil
}

// Cancel moves the booking to cancelled and records whether the cancellation
// was late (less than 12h before the scheduled start). Cancelling does not
// refund; a refund is a separate explicit action.
func Cancel(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCancelled); err != nil {
		return err
	}

	late := b.ScheduledAt.Sub(now) < LateCancelWindow

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.IsLateCancellation = &late
	return nil
}

func Complete(b *models.Booking, callEndedAt time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCompleted); err != nil {
		return err
	}
	b.Status = string(StatusCompleted)
	b.CallEndedAt = &callEndedAt
	return nil
}

func MarkRefunded(b *models.Booking, refundID string) error {
	if err := CanTransition(Status(b.Status), StatusRefunded); err != nil {
		return err
	}
	b.Status = string(StatusRefunded)
	if refundID != "" {
		b.RefundID = &refundID
	}
	return nil
}

// AttachPayment records the gateway's payment reference. Webhooks never move
// the status; they only attach the reference.
func AttachPayment(b *models.Booking, paymentID string) error {
	if IsTerminal(Status(b.Status)) {
		return httperr.ErrBusinessf(
			httperr.CodeInvalidTransition,
			"cannot attach a payment to a %s booking", b.Status,
		)
	}
	b.PaymentID = &paymentID
	return nil
}

// CanReschedule gates moving a booking to a new start time. Only live
// bookings can move, and only while more than 4h remain before the current
// start.
func CanReschedule(b *models.Booking, now time.Time) error {
	s := Status(b.Status)
	if s != StatusPending && s != StatusConfirmed {
		return httperr.ErrBusinessf(
			httperr.CodeInvalidTransition,
			"a %s booking cannot be rescheduled", b.Status,
		)
	}
	if b.ScheduledAt.Sub(now) < RescheduleCutoff {
		return httperr.ErrBusinessf(
			httperr.CodeTooLateToChange,
			"bookings can only be rescheduled up to 4 hours before the session",
		)
	}
	return nil
}
