package payment

import (
	"context"
	"errors"
	"net"
	"time"
)

// CheckoutInput describes the hosted checkout session the gateway should
// open for a freshly created booking.
type CheckoutInput struct {
	BookingID   uint
	Description string
	Amount      float64
	Currency    string
	SuccessURL  string
	FailureURL  string
	ExpiresAt   time.Time
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Payment is the gateway's view of a captured payment.
type Payment struct {
	ID             string
	Approved       bool
	Amount         float64
	AmountRefunded float64
	// BookingRef is the external reference the checkout session was tagged
	// with, i.e. the booking id.
	BookingRef string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)

	GetPayment(ctx context.Context, paymentID string) (*Payment, error)

	// CreateRefund refunds the full captured amount of the payment and
	// returns the gateway's refund id. amount is the booking's stored price
	// and must match what was captured; idempotencyKey identifies this
	// attempt in logs and gateway requests.
	CreateRefund(ctx context.Context, paymentID string, amount float64, idempotencyKey string) (string, error)
}

// TransientError marks gateway failures that are worth retrying with
// backoff: rate limits, connection errors, gateway-side 5xx.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient gateway error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
