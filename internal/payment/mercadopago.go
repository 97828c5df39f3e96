package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/mercadopago/sdk-go/pkg/refund"
)

// MercadoPago adapts the hosted checkout + refund API to the Gateway port.
//
// The SDK sends its own X-Idempotency-Key per request; the key we mint per
// refund attempt is passed along for traceability, and replay safety comes
// from the pre-refund payment lookup (a payment that already shows an
// AmountRefunded is never refunded again).
type MercadoPago struct {
	pref preference.Client
	pay  mppayment.Client
	ref  refund.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		pref: preference.NewClient(cfg),
		pay:  mppayment.NewClient(cfg),
		ref:  refund.NewClient(cfg),
	}, nil
}

func (g *MercadoPago) CreateCheckoutSession(
	ctx context.Context,
	in CheckoutInput,
) (*CheckoutSession, error) {

	expires := in.ExpiresAt

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         strconv.FormatUint(uint64(in.BookingID), 10),
				Title:      in.Description,
				Quantity:   1,
				UnitPrice:  in.Amount,
				CurrencyID: in.Currency,
			},
		},
		ExternalReference: strconv.FormatUint(uint64(in.BookingID), 10),
		Metadata: map[string]any{
			"booking_id": in.BookingID,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: in.SuccessURL,
			Failure: in.FailureURL,
			Pending: in.SuccessURL,
		},
		Expires:          true,
		ExpirationDateTo: &expires,
	}

	resp, err := g.pref.Create(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	return &CheckoutSession{
		ID:  resp.ID,
		URL: resp.InitPoint,
	}, nil
}

func (g *MercadoPago) GetPayment(
	ctx context.Context,
	paymentID string,
) (*Payment, error) {

	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q", paymentID)
	}

	resp, err := g.pay.Get(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	return &Payment{
		ID:             paymentID,
		Approved:       resp.Status == "approved",
		Amount:         resp.TransactionAmount,
		AmountRefunded: resp.TransactionAmountRefunded,
		BookingRef:     resp.ExternalReference,
	}, nil
}

func (g *MercadoPago) CreateRefund(
	ctx context.Context,
	paymentID string,
	amount float64,
	idempotencyKey string,
) (string, error) {

	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return "", fmt.Errorf("invalid payment id %q", paymentID)
	}

	// Bookings are always refunded in full, for exactly the captured price.
	// Guard against the two ever drifting apart.
	p, err := g.pay.Get(ctx, id)
	if err != nil {
		return "", classify(err)
	}
	if math.Abs(p.TransactionAmount-amount) >= 0.01 {
		return "", fmt.Errorf(
			"refund amount %.2f does not match captured amount %.2f (key %s)",
			amount, p.TransactionAmount, idempotencyKey,
		)
	}

	resp, err := g.ref.Create(ctx, id)
	if err != nil {
		return "", classify(err)
	}

	return strconv.Itoa(int(resp.ID)), nil
}

// classify wraps rate-limit and gateway-side failures as transient so the
// refund path retries them with backoff.
func classify(err error) error {
	msg := err.Error()
	for _, marker := range []string{
		"429", "too_many_requests",
		"500", "502", "503", "504",
		"connection refused", "connection reset",
		"timeout", "deadline exceeded", "EOF",
	} {
		if strings.Contains(msg, marker) {
			return &TransientError{Err: err}
		}
	}
	return err
}

var _ Gateway = (*MercadoPago)(nil)
