package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/supermarios77/Linglix-sub002/internal/middleware"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"penalty_until": user.PenaltyUntil,
		},
	}

	if user.Role == models.RoleTutor {
		var profile models.TutorProfile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			resp["tutor_profile"] = gin.H{
				"id":          profile.ID,
				"headline":    profile.Headline,
				"hourly_rate": profile.HourlyRate,
				"active":      profile.Active,
				"approved":    profile.Approved,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
