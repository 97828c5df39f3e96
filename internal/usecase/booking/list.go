package booking

import (
	"context"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ForStudent(
	ctx context.Context,
	studentID uint,
) ([]models.Booking, error) {
	return uc.repo.ListBookingsForStudent(ctx, studentID)
}

func (uc *ListBookings) ForTutorUser(
	ctx context.Context,
	tutorUserID uint,
) ([]models.Booking, error) {

	profile, err := uc.repo.GetTutorProfileByUser(ctx, tutorUserID)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListBookingsForTutor(ctx, profile.ID)
}
