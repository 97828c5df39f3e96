package booking

import (
	"context"
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/models"
)

type Repository interface {
	// -------- Reference data --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetTutorProfile(
		ctx context.Context,
		id uint,
	) (*models.TutorProfile, error)

	GetTutorProfileByUser(
		ctx context.Context,
		userID uint,
	) (*models.TutorProfile, error)

	ListActiveSlots(
		ctx context.Context,
		tutorProfileID uint,
	) ([]models.AvailabilitySlot, error)

	// -------- Booking (create / reschedule under lock) --------

	// ListActiveBookings returns the tutor's bookings that still hold time
	// (everything not cancelled/refunded), ordered by start time.
	ListActiveBookings(
		ctx context.Context,
		tutorProfileID uint,
	) ([]models.Booking, error)

	// CreateBookingLocked inserts the booking inside a serializable
	// transaction after re-checking the [start,end) window under lock.
	// Returns a time_conflict business error if the slot was taken between
	// the caller's snapshot check and the commit.
	CreateBookingLocked(
		ctx context.Context,
		b *models.Booking,
	) error

	// RescheduleLocked moves an existing booking to newStart with the same
	// locked re-check, excluding the booking itself from the conflict scan.
	RescheduleLocked(
		ctx context.Context,
		b *models.Booking,
		newStart time.Time,
	) error

	// -------- Booking (state change) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// DeleteBooking is the compensating action for a failed checkout-session
	// creation. It must not be used for anything else.
	DeleteBooking(
		ctx context.Context,
		id uint,
	) error

	ListBookingsForStudent(
		ctx context.Context,
		studentID uint,
	) ([]models.Booking, error)

	ListBookingsForTutor(
		ctx context.Context,
		tutorProfileID uint,
	) ([]models.Booking, error)

	// -------- Reconciler --------

	// ListExpiredPending returns pending bookings whose scheduled time has
	// passed and that carry a payment reference, oldest-scheduled first,
	// at most limit rows.
	ListExpiredPending(
		ctx context.Context,
		now time.Time,
		limit int,
	) ([]models.Booking, error)
}

// PenaltyPolicy decouples the lifecycle engine from the rolling-window
// late-cancellation policy. The engine only asks two questions: may this
// student book, and record that they cancelled late.
type PenaltyPolicy interface {
	IsPenalized(ctx context.Context, studentID uint, now time.Time) (bool, error)
	RecordLateCancellation(ctx context.Context, studentID uint, now time.Time) error
}
