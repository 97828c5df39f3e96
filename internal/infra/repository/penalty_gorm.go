package repository

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

const (
	// penaltyWindow is how far back late cancellations count.
	penaltyWindow = 30 * 24 * time.Hour

	// penaltyThreshold late cancellations inside the window trigger a ban.
	penaltyThreshold = 3

	// penaltyDuration is how long the booking ban lasts once triggered.
	penaltyDuration = 7 * 24 * time.Hour
)

// GormPenaltyPolicy is the rolling-window late-cancellation policy. The
// counter is not a stored column: it is a count over cancelled bookings
// flagged late within the window, so it ages out on its own.
type GormPenaltyPolicy struct {
	db *gorm.DB
}

func NewGormPenaltyPolicy(db *gorm.DB) *GormPenaltyPolicy {
	return &GormPenaltyPolicy{db: db}
}

func (p *GormPenaltyPolicy) IsPenalized(
	ctx context.Context,
	studentID uint,
	now time.Time,
) (bool, error) {

	var user models.User
	if err := p.db.WithContext(ctx).First(&user, studentID).Error; err != nil {
		return false, err
	}
	return user.PenaltyUntil != nil && user.PenaltyUntil.After(now), nil
}

func (p *GormPenaltyPolicy) RecordLateCancellation(
	ctx context.Context,
	studentID uint,
	now time.Time,
) error {

	var count int64
	if err := p.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"student_id = ? AND status = ? AND is_late_cancellation AND cancelled_at > ?",
			studentID, string(domain.StatusCancelled), now.Add(-penaltyWindow),
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count < penaltyThreshold {
		return nil
	}

	until := now.Add(penaltyDuration)
	log.Printf(
		"penalty: student=%d late_cancellations=%d until=%s",
		studentID, count, until.Format(time.RFC3339),
	)

	return p.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", studentID).
		Update("penalty_until", until).Error
}

var _ domain.PenaltyPolicy = (*GormPenaltyPolicy)(nil)
