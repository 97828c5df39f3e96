package models

import "time"

// AvailabilitySlot is one weekly-recurring open interval for a tutor.
// StartTime/EndTime are wall-clock "15:04" strings with no date attached.
type AvailabilitySlot struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	TutorProfileID uint `gorm:"index" json:"tutor_profile_id"`

	Weekday   int    `json:"weekday"` // 0 = Sunday .. 6 = Saturday
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Timezone  string `gorm:"size:50" json:"timezone"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
