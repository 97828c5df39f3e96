package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StudentID uint `gorm:"index" json:"student_id"`
	Student   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"student"`

	TutorProfileID uint         `gorm:"index" json:"tutor_profile_id"`
	TutorProfile   TutorProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"tutor_profile"`

	// ScheduledAt is stored and interpreted in UTC.
	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`
	DurationMin int       `json:"duration_min"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// Price is a snapshot of duration x hourly rate taken at creation.
	// It is never recomputed afterwards.
	Price float64 `gorm:"type:numeric(10,2)" json:"price"`

	Notes string `gorm:"size:255" json:"notes"`

	PaymentID          *string    `gorm:"size:100" json:"payment_id"`
	RefundID           *string    `gorm:"size:100" json:"refund_id"`
	CallEndedAt        *time.Time `json:"call_ended_at"`
	IsLateCancellation *bool      `json:"is_late_cancellation"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndsAt returns the exclusive end of the booked interval.
func (b *Booking) EndsAt() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMin) * time.Minute)
}
