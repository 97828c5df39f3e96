package models

import "time"

// TutorProfile is reference data for the booking core: the hourly rate is
// snapshotted into the booking price at creation, and the flags gate whether
// booking is permitted at all.
type TutorProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Headline   string  `gorm:"size:255" json:"headline"`
	Bio        string  `gorm:"type:text" json:"bio"`
	HourlyRate float64 `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`

	Active   bool `gorm:"default:true" json:"active"`
	Approved bool `gorm:"default:false" json:"approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
