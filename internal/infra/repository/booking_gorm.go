package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

// advisoryLockClass namespaces the per-tutor advisory lock so it cannot
// collide with other advisory locks in the same database.
const advisoryLockClass = 4217

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Reference data
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (r *BookingGormRepository) GetTutorProfile(
	ctx context.Context,
	id uint,
) (*models.TutorProfile, error) {

	var profile models.TutorProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, notFoundOr(err, "tutor")
	}
	return &profile, nil
}

func (r *BookingGormRepository) GetTutorProfileByUser(
	ctx context.Context,
	userID uint,
) (*models.TutorProfile, error) {

	var profile models.TutorProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, notFoundOr(err, "tutor")
	}
	return &profile, nil
}

func (r *BookingGormRepository) ListActiveSlots(
	ctx context.Context,
	tutorProfileID uint,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("tutor_profile_id = ? AND active", tutorProfileID).
		Order("weekday ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// Booking (create / reschedule under lock)
// --------------------------------------------------

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	tutorProfileID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("id", "tutor_profile_id", "scheduled_at", "duration_min", "status").
		Where(
			"tutor_profile_id = ? AND status NOT IN ?",
			tutorProfileID, inactiveStatuses(),
		).
		Order("scheduled_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) CreateBookingLocked(
	ctx context.Context,
	b *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTutor(tx, b.TutorProfileID); err != nil {
			return err
		}
		if err := assertWindowFree(tx, b.TutorProfileID, b.ScheduledAt, b.EndsAt(), 0); err != nil {
			return err
		}
		return tx.Create(b).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return mapTxError(err)
}

func (r *BookingGormRepository) RescheduleLocked(
	ctx context.Context,
	b *models.Booking,
	newStart time.Time,
) error {

	newEnd := newStart.Add(time.Duration(b.DurationMin) * time.Minute)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTutor(tx, b.TutorProfileID); err != nil {
			return err
		}
		if err := assertWindowFree(tx, b.TutorProfileID, newStart, newEnd, b.ID); err != nil {
			return err
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("scheduled_at", newStart)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusinessf(httperr.CodeNotFound, "booking not found")
		}

		b.ScheduledAt = newStart
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return mapTxError(err)
}

// lockTutor takes a transaction-scoped advisory lock on the tutor, so two
// creates for the same tutor serialize even if their windows are disjoint
// rows as far as row locks are concerned.
func lockTutor(tx *gorm.DB, tutorProfileID uint) error {
	return tx.Exec(
		"SELECT pg_advisory_xact_lock(?, ?)",
		advisoryLockClass, int64(tutorProfileID),
	).Error
}

// assertWindowFree re-checks the [start,end) window against the live table
// under FOR UPDATE. excludeID skips the booking being rescheduled.
func assertWindowFree(
	tx *gorm.DB,
	tutorProfileID uint,
	start, end time.Time,
	excludeID uint,
) error {

	q := tx.Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where(
			"tutor_profile_id = ? AND status NOT IN ? "+
				"AND scheduled_at < ? "+
				"AND scheduled_at + make_interval(mins => duration_min) > ?",
			tutorProfileID, inactiveStatuses(), end, start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var taken []models.Booking
	if err := q.Limit(1).Find(&taken).Error; err != nil {
		return err
	}
	if len(taken) > 0 {
		return httperr.ErrBusinessf(
			httperr.CodeTimeConflict,
			"slot taken by another request",
		)
	}
	return nil
}

// mapTxError turns a serialization failure (two transactions raced past each
// other's snapshots) into the same conflict error the re-check produces.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "40001" {
		return httperr.ErrBusinessf(
			httperr.CodeTimeConflict,
			"slot taken by another request",
		)
	}
	return err
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFoundOr(err, "booking")
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *BookingGormRepository) ListBookingsForStudent(
	ctx context.Context,
	studentID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("TutorProfile").
		Preload("TutorProfile.User").
		Where("student_id = ?", studentID).
		Order("scheduled_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForTutor(
	ctx context.Context,
	tutorProfileID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("tutor_profile_id = ?", tutorProfileID).
		Order("scheduled_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Reconciler
// --------------------------------------------------

func (r *BookingGormRepository) ListExpiredPending(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"status = ? AND scheduled_at < ? AND payment_id IS NOT NULL",
			string(domain.StatusPending), now,
		).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func inactiveStatuses() []string {
	out := make([]string, 0, len(domain.InactiveStatuses))
	for _, s := range domain.InactiveStatuses {
		out = append(out, string(s))
	}
	return out
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusinessf(httperr.CodeNotFound, "%s not found", what)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
