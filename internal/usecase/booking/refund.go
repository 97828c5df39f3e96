package booking

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
)

const refundAttempts = 3

type RefundBooking struct {
	repo     domain.Repository
	gateway  payment.Gateway
	audit    *audit.Dispatcher
	notifier *notification.Dispatcher

	// backoff is replaceable so tests do not sleep.
	backoff func(attempt int)
}

func NewRefundBooking(
	repo domain.Repository,
	gateway payment.Gateway,
	audit *audit.Dispatcher,
	notifier *notification.Dispatcher,
) *RefundBooking {
	return &RefundBooking{
		repo:     repo,
		gateway:  gateway,
		audit:    audit,
		notifier: notifier,
		backoff: func(attempt int) {
			time.Sleep(time.Duration(attempt) * time.Second)
		},
	}
}

type RefundResult struct {
	Booking         *models.Booking
	AlreadyRefunded bool
}

// Execute refunds the booking's stored price. The operation is idempotent:
// an already-refunded booking short-circuits without touching the gateway,
// and a payment refunded out-of-band is detected and recorded locally
// instead of being refunded twice. A fresh idempotency key is minted per
// attempt; replay safety comes from that gateway-side check, not the key.
func (uc *RefundBooking) Execute(
	ctx context.Context,
	bookingID uint,
	reason string,
) (*RefundResult, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// 1. Idempotent short-circuit.
	if domain.Status(b.Status) == domain.StatusRefunded {
		return &RefundResult{Booking: b, AlreadyRefunded: true}, nil
	}

	// 2. Nothing captured, nothing to refund.
	if b.PaymentID == nil || *b.PaymentID == "" {
		return nil, httperr.ErrBusinessf(
			httperr.CodeNoPayment,
			"booking has no captured payment to refund",
		)
	}

	// Refundability is checked before any gateway call, so an illegal
	// transition (e.g. refunding a completed session) fails cheaply.
	if err := domain.CanTransition(domain.Status(b.Status), domain.StatusRefunded); err != nil {
		return nil, err
	}

	// 3. Detect out-of-band refunds before issuing a new one. The lookup
	// gets the same transient-retry treatment as the refund itself.
	var p *payment.Payment
	for attempt := 1; ; attempt++ {
		p, err = uc.gateway.GetPayment(ctx, *b.PaymentID)
		if err == nil {
			break
		}
		if !payment.IsTransient(err) || attempt >= refundAttempts {
			return nil, httperr.ErrBusinessf(
				httperr.CodeRefundFailed,
				"could not verify payment state: %v", err,
			)
		}
		log.Printf("payment lookup attempt %d for booking %d failed, retrying: %v", attempt, b.ID, err)
		uc.backoff(attempt)
	}
	if p.AmountRefunded > 0 {
		if err := domain.MarkRefunded(b, ""); err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateBooking(ctx, b); err != nil {
			return nil, err
		}
		uc.recordRefund(b, reason, "out_of_band")
		return &RefundResult{Booking: b, AlreadyRefunded: true}, nil
	}

	// 4. Issue the refund for exactly the stored price, retrying transient
	// gateway failures with backoff. The booking status is left untouched
	// on failure so the expiry sweep can retry later.
	var refundID string
	for attempt := 1; ; attempt++ {
		key := uuid.NewString()
		refundID, err = uc.gateway.CreateRefund(ctx, *b.PaymentID, b.Price, key)
		if err == nil {
			break
		}
		if !payment.IsTransient(err) || attempt >= refundAttempts {
			return nil, httperr.ErrBusinessf(
				httperr.CodeRefundFailed,
				"refund failed after %d attempt(s): %v", attempt, err,
			)
		}
		log.Printf("refund attempt %d for booking %d failed, retrying: %v", attempt, b.ID, err)
		uc.backoff(attempt)
	}

	// 5. Record the gateway's refund id together with the status change.
	if err := domain.MarkRefunded(b, refundID); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.recordRefund(b, reason, refundID)

	if student, err := uc.repo.GetUser(ctx, b.StudentID); err == nil {
		uc.notifier.Dispatch(notification.Event{
			Kind:      notification.KindBookingRefunded,
			Recipient: student.Email,
			Data: map[string]any{
				"booking_id": b.ID,
				"amount":     b.Price,
				"reason":     reason,
			},
		})
	}

	return &RefundResult{Booking: b}, nil
}

func (uc *RefundBooking) recordRefund(b *models.Booking, reason, refundID string) {
	uc.audit.Dispatch(audit.Event{
		Action:   "booking_refunded",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"amount":    b.Price,
			"reason":    reason,
			"refund_id": refundID,
		},
	})
}
