package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
)

func strptr(s string) *string { return &s }

func newRefundFixture(status domain.Status, paymentID *string) (*fakeRepo, *fakeGateway, *RefundBooking) {
	repo := newFakeRepo()
	repo.users[1] = &models.User{ID: 1, Email: "alice@example.com"}
	repo.bookings[5] = &models.Booking{
		ID: 5, StudentID: 1, TutorProfileID: 10,
		ScheduledAt: time.Now().UTC().Add(-2 * time.Hour),
		DurationMin: 60, Status: string(status),
		Price:     40.00,
		PaymentID: paymentID,
	}

	gw := &fakeGateway{payments: map[string]*payment.Payment{}}
	if paymentID != nil {
		gw.payments[*paymentID] = &payment.Payment{
			ID: *paymentID, Approved: true, Amount: 40.00, BookingRef: "5",
		}
	}

	uc := NewRefundBooking(repo, gw, testAudit(), testNotifier())
	uc.backoff = func(int) {}
	return repo, gw, uc
}

func TestRefund_HappyPath(t *testing.T) {
	repo, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.refundID = "ref-9"

	res, err := uc.Execute(context.Background(), 5, "admin refund")

	require.NoError(t, err)
	assert.False(t, res.AlreadyRefunded)
	assert.Equal(t, string(domain.StatusRefunded), res.Booking.Status)
	require.NotNil(t, res.Booking.RefundID)
	assert.Equal(t, "ref-9", *res.Booking.RefundID)
	assert.Equal(t, 1, gw.refundCalls)

	stored, _ := repo.GetBooking(context.Background(), 5)
	assert.Equal(t, string(domain.StatusRefunded), stored.Status)
}

func TestRefund_AlreadyRefundedShortCircuits(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusRefunded, strptr("pay-1"))

	res, err := uc.Execute(context.Background(), 5, "again")

	require.NoError(t, err)
	assert.True(t, res.AlreadyRefunded)

	// The gateway is never touched on the second call.
	assert.Equal(t, 0, gw.getCalls)
	assert.Equal(t, 0, gw.refundCalls)
}

func TestRefund_SecondCallIsNoop(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))

	first, err := uc.Execute(context.Background(), 5, "sweep")
	require.NoError(t, err)
	assert.False(t, first.AlreadyRefunded)

	second, err := uc.Execute(context.Background(), 5, "sweep")
	require.NoError(t, err)
	assert.True(t, second.AlreadyRefunded)
	assert.Equal(t, 1, gw.refundCalls)
}

func TestRefund_NoPayment(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusPending, nil)

	_, err := uc.Execute(context.Background(), 5, "sweep")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNoPayment))
	assert.Equal(t, 0, gw.refundCalls)
}

func TestRefund_CompletedBookingRejected(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusCompleted, strptr("pay-1"))

	_, err := uc.Execute(context.Background(), 5, "admin refund")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
	assert.Equal(t, 0, gw.getCalls)
	assert.Equal(t, 0, gw.refundCalls)
}

func TestRefund_OutOfBandRefundDetected(t *testing.T) {
	repo, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.payments["pay-1"].AmountRefunded = 40.00

	res, err := uc.Execute(context.Background(), 5, "sweep")

	require.NoError(t, err)
	assert.True(t, res.AlreadyRefunded)
	assert.Equal(t, string(domain.StatusRefunded), res.Booking.Status)

	// Detected, recorded locally, but no second refund issued.
	assert.Equal(t, 0, gw.refundCalls)

	stored, _ := repo.GetBooking(context.Background(), 5)
	assert.Equal(t, string(domain.StatusRefunded), stored.Status)
	assert.Nil(t, stored.RefundID)
}

func TestRefund_TransientFailureRetries(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.refundFails = 2
	gw.refundErr = &payment.TransientError{Err: errors.New("rate limited")}

	res, err := uc.Execute(context.Background(), 5, "sweep")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefunded), res.Booking.Status)
	assert.Equal(t, 3, gw.refundCalls)

	// Each attempt carries its own idempotency key.
	require.Len(t, gw.refundKeys, 3)
	assert.NotEqual(t, gw.refundKeys[0], gw.refundKeys[1])
	assert.NotEqual(t, gw.refundKeys[1], gw.refundKeys[2])
}

func TestRefund_TransientFailureExhaustsRetries(t *testing.T) {
	repo, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.refundFails = 10
	gw.refundErr = &payment.TransientError{Err: errors.New("rate limited")}

	_, err := uc.Execute(context.Background(), 5, "sweep")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRefundFailed))
	assert.Equal(t, refundAttempts, gw.refundCalls)

	// The booking stays untouched so a later sweep can retry.
	stored, _ := repo.GetBooking(context.Background(), 5)
	assert.Equal(t, string(domain.StatusPending), stored.Status)
}

func TestRefund_PermanentFailureDoesNotRetry(t *testing.T) {
	repo, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.refundFails = 10
	gw.refundErr = errors.New("payment not refundable")

	_, err := uc.Execute(context.Background(), 5, "admin refund")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRefundFailed))
	assert.Equal(t, 1, gw.refundCalls)

	stored, _ := repo.GetBooking(context.Background(), 5)
	assert.Equal(t, string(domain.StatusPending), stored.Status)
}

func TestRefund_PaymentLookupFailure(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.getFails = 10
	gw.getErr = errors.New("payment gone")

	_, err := uc.Execute(context.Background(), 5, "sweep")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRefundFailed))

	// Not transient, so no second lookup and no refund issued.
	assert.Equal(t, 1, gw.getCalls)
	assert.Equal(t, 0, gw.refundCalls)
}

func TestRefund_TransientLookupRetries(t *testing.T) {
	_, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.getFails = 2
	gw.getErr = &payment.TransientError{Err: errors.New("rate limited")}

	res, err := uc.Execute(context.Background(), 5, "sweep")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRefunded), res.Booking.Status)
	assert.Equal(t, 3, gw.getCalls)
	assert.Equal(t, 1, gw.refundCalls)
}

func TestRefund_TransientLookupExhaustsRetries(t *testing.T) {
	repo, gw, uc := newRefundFixture(domain.StatusPending, strptr("pay-1"))
	gw.getFails = 10
	gw.getErr = &payment.TransientError{Err: errors.New("rate limited")}

	_, err := uc.Execute(context.Background(), 5, "sweep")

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRefundFailed))
	assert.Equal(t, refundAttempts, gw.getCalls)
	assert.Equal(t, 0, gw.refundCalls)

	stored, _ := repo.GetBooking(context.Background(), 5)
	assert.Equal(t, string(domain.StatusPending), stored.Status)
}
