package booking

import (
	"context"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/timezone"
)

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:  repo,
		audit: audit,
	}
}

// Execute marks a confirmed booking as completed once the call has ended.
func (uc *CompleteBooking) Execute(
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

	if err := domain.Complete(b, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &tutorUserID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
