package booking

import (
	"context"
	"log"
	"strconv"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
)

type AttachPayment struct {
	repo    domain.Repository
	gateway payment.Gateway
	audit   *audit.Dispatcher
}

func NewAttachPayment(
	repo domain.Repository,
	gateway payment.Gateway,
	audit *audit.Dispatcher,
) *AttachPayment {
	return &AttachPayment{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

// Execute handles a payment webhook notification. The event is never
// trusted as-is: the payment is re-fetched from the gateway, and only an
// approved payment whose reference resolves to one of our bookings gets
// attached. Attaching never changes the booking status.
func (uc *AttachPayment) Execute(
	ctx context.Context,
	gatewayPaymentID string,
) (*models.Booking, error) {

	p, err := uc.gateway.GetPayment(ctx, gatewayPaymentID)
	if err != nil {
		return nil, err
	}
	if !p.Approved {
		log.Printf("webhook: payment %s not approved, ignoring", gatewayPaymentID)
		return nil, nil
	}

	bookingID, err := strconv.ParseUint(p.BookingRef, 10, 64)
	if err != nil {
		log.Printf("webhook: payment %s has unusable reference %q", gatewayPaymentID, p.BookingRef)
		return nil, nil
	}

	b, err := uc.repo.GetBooking(ctx, uint(bookingID))
	if err != nil {
		return nil, err
	}

	// Replayed webhooks for a payment we already hold are a no-op.
	if b.PaymentID != nil && *b.PaymentID == p.ID {
		return b, nil
	}

	if err := domain.AttachPayment(b, p.ID); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "payment_attached",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"payment_id": p.ID, "amount": p.Amount},
	})

	return b, nil
}
