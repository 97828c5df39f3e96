package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

func newRescheduleFixture(scheduledIn time.Duration) (*fakeRepo, *RescheduleBooking) {
	repo := newFakeRepo()
	seedTutor(repo)
	repo.bookings[5] = &models.Booking{
		ID: 5, StudentID: 1, TutorProfileID: 10,
		ScheduledAt: time.Now().UTC().Add(scheduledIn),
		DurationMin: 60, Status: string(domain.StatusConfirmed), Price: 40.00,
	}
	repo.nextID = 5

	return repo, NewRescheduleBooking(repo, testAudit(), testNotifier())
}

func TestReschedule_HappyPath(t *testing.T) {
	repo, uc := newRescheduleFixture(48 * time.Hour)

	newStart := noonIn(96 * time.Hour)
	b, err := uc.Execute(context.Background(), 1, 5, newStart)

	require.NoError(t, err)
	assert.Equal(t, newStart, b.ScheduledAt)

	// Status and price snapshot survive the move.
	assert.Equal(t, string(domain.StatusConfirmed), b.Status)
	assert.InDelta(t, 40.00, b.Price, 0.0001)

	stored, _ := repo.GetBooking(context.Background(), 5)
	assert.Equal(t, newStart, stored.ScheduledAt)
}

func TestReschedule_TooCloseToStart(t *testing.T) {
	_, uc := newRescheduleFixture(2 * time.Hour)

	_, err := uc.Execute(context.Background(), 1, 5, noonIn(96*time.Hour))

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeTooLateToChange))
}

func TestReschedule_NewTimeValidatedLikeCreate(t *testing.T) {
	_, uc := newRescheduleFixture(48 * time.Hour)

	// New start inside the 24h advance window is rejected.
	_, err := uc.Execute(context.Background(), 1, 5, time.Now().UTC().Add(6*time.Hour))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeTooSoon))
}

func TestReschedule_ConflictExcludesSelf(t *testing.T) {
	repo, uc := newRescheduleFixture(48 * time.Hour)

	// Moving within the booking's own current hour must not self-conflict.
	self := repo.bookings[5].ScheduledAt.Add(30 * time.Minute)
	if self.Before(time.Now().UTC().Add(24*time.Hour + time.Minute)) {
		self = repo.bookings[5].ScheduledAt.Add(time.Hour)
	}
	_, err := uc.Execute(context.Background(), 1, 5, self)
	require.NoError(t, err)

	// But another live booking at the target still conflicts.
	taken := noonIn(96 * time.Hour)
	repo.bookings[6] = &models.Booking{
		ID: 6, StudentID: 3, TutorProfileID: 10,
		ScheduledAt: taken, DurationMin: 60,
		Status: string(domain.StatusPending),
	}
	_, err = uc.Execute(context.Background(), 1, 5, taken.Add(30*time.Minute))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeTimeConflict))
}

func TestReschedule_OnlyOwnerMoves(t *testing.T) {
	_, uc := newRescheduleFixture(48 * time.Hour)

	_, err := uc.Execute(context.Background(), 99, 5, noonIn(96*time.Hour))

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestReschedule_CancelledBookingCannotMove(t *testing.T) {
	repo, uc := newRescheduleFixture(48 * time.Hour)
	repo.bookings[5].Status = string(domain.StatusCancelled)

	_, err := uc.Execute(context.Background(), 1, 5, noonIn(96*time.Hour))

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
}
