package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/httpresp"
	"github.com/supermarios77/Linglix-sub002/internal/middleware"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/timezone"
	ucBooking "github.com/supermarios77/Linglix-sub002/internal/usecase/booking"
)

type AvailabilityHandler struct {
	db           *gorm.DB
	availability *ucBooking.GetAvailability
}

func NewAvailabilityHandler(db *gorm.DB, availability *ucBooking.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, availability: availability}
}

type SlotConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

type SlotsUpdateRequest struct {
	Slots []SlotConfig `json:"slots" binding:"required"`
}

// Get returns the calling tutor's weekly availability.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	profile, ok := h.profileForUser(c, userID)
	if !ok {
		return
	}

	var slots []models.AvailabilitySlot
	if err := h.db.
		Where("tutor_profile_id = ?", profile.ID).
		Order("weekday ASC").
		Find(&slots).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Could not load availability.")
		return
	}

	httpresp.List(c, slots)
}

// Update replaces the calling tutor's weekly availability wholesale.
func (h *AvailabilityHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	profile, ok := h.profileForUser(c, userID)
	if !ok {
		return
	}

	var req SlotsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, s := range req.Slots {
		if s.Active && !timezone.IsValid(s.Timezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timezone"})
			return
		}
	}

	if err := h.db.
		Where("tutor_profile_id = ?", profile.ID).
		Delete(&models.AvailabilitySlot{}).Error; err != nil {
		httperr.Internal(c, "failed_to_clear_availability", "Could not update availability.")
		return
	}

	var toCreate []models.AvailabilitySlot
	for _, s := range req.Slots {
		toCreate = append(toCreate, models.AvailabilitySlot{
			TutorProfileID: profile.ID,
			Weekday:        s.Weekday,
			Active:         s.Active,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Timezone:       s.Timezone,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			httperr.Internal(c, "failed_to_save_availability", "Could not update availability.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PublicSlots lists free bookable slots for a tutor on a UTC date.
// GET /api/public/tutors/:id/availability?date=2026-09-07&duration=60
func (h *AvailabilityHandler) PublicSlots(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_tutor_id", "Invalid tutor id.")
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if err != nil {
		httperr.BadRequest(c, "invalid_duration", "Duration must be a number of minutes.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), uint(profileID), date, duration)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}

func (h *AvailabilityHandler) profileForUser(c *gin.Context, userID uint) (*models.TutorProfile, bool) {
	var profile models.TutorProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		httperr.NotFound(c, "tutor_profile_not_found", "No tutor profile for this account.")
		return nil, false
	}
	return &profile, true
}
