package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/httpresp"
	"github.com/supermarios77/Linglix-sub002/internal/middleware"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	ucBooking "github.com/supermarios77/Linglix-sub002/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create     *ucBooking.CreateBooking
	confirm    *ucBooking.ConfirmBooking
	cancel     *ucBooking.CancelBooking
	reschedule *ucBooking.RescheduleBooking
	complete   *ucBooking.CompleteBooking
	refund     *ucBooking.RefundBooking
	list       *ucBooking.ListBookings
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	confirm *ucBooking.ConfirmBooking,
	cancel *ucBooking.CancelBooking,
	reschedule *ucBooking.RescheduleBooking,
	complete *ucBooking.CompleteBooking,
	refund *ucBooking.RefundBooking,
	list *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		create:     create,
		confirm:    confirm,
		cancel:     cancel,
		reschedule: reschedule,
		complete:   complete,
		refund:     refund,
		list:       list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	TutorProfileID uint      `json:"tutor_profile_id" binding:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" binding:"required"`
	DurationMin    int       `json:"duration_min" binding:"required"`
	Notes          string    `json:"notes"`
}

type RescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type RefundRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// STUDENT
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	studentID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		StudentID:      studentID,
		TutorProfileID: req.TutorProfileID,
		ScheduledAt:    req.ScheduledAt,
		DurationMin:    req.DurationMin,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"booking":      res.Booking,
		"checkout_url": res.CheckoutURL,
	})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	var (
		bookings []models.Booking
		err      error
	)
	if role == models.RoleTutor {
		bookings, err = h.list.ForTutorUser(c.Request.Context(), userID)
	} else {
		bookings, err = h.list.ForStudent(c.Request.Context(), userID)
	}
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	studentID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid reschedule data.")
		return
	}

	b, err := h.reschedule.Execute(c.Request.Context(), studentID, id, req.ScheduledAt)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// TUTOR
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	tutorUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.confirm.Execute(c.Request.Context(), tutorUserID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	tutorUserID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), tutorUserID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// ADMIN
// ======================================================

func (h *BookingHandler) Refund(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RefundRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "admin refund"
	}

	res, err := h.refund.Execute(c.Request.Context(), id, req.Reason)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"booking":          res.Booking,
		"already_refunded": res.AlreadyRefunded,
	})
}

// ======================================================
// HELPERS
// ======================================================

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return 0, false
	}
	return uint(id), true
}
