package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	"github.com/supermarios77/Linglix-sub002/internal/config"
	"github.com/supermarios77/Linglix-sub002/internal/handlers"
	infraRepo "github.com/supermarios77/Linglix-sub002/internal/infra/repository"
	"github.com/supermarios77/Linglix-sub002/internal/middleware"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
	ucBooking "github.com/supermarios77/Linglix-sub002/internal/usecase/booking"
)

// Deps are the process-wide singletons the routes need. RegisterRoutes wires
// everything below them.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Gateway  payment.Gateway
	Notifier *notification.Dispatcher
}

// Wiring is handed back to main so the reconciler can share the exact same
// use-case instances the HTTP surface uses.
type Wiring struct {
	Sweep *ucBooking.SweepExpired
}

func RegisterRoutes(r *gin.Engine, d Deps) *Wiring {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	penaltyPolicy := infraRepo.NewGormPenaltyPolicy(d.DB)

	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	checkout := ucBooking.CheckoutConfig{
		Currency:   d.Config.Currency,
		SuccessURL: d.Config.CheckoutSuccess,
		FailureURL: d.Config.CheckoutFailure,
		SessionTTL: d.Config.CheckoutTTL,
	}

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createUC := ucBooking.NewCreateBooking(
		bookingRepo,
		penaltyPolicy,
		d.Gateway,
		checkout,
		auditDispatcher,
		d.Notifier,
	)

	confirmUC := ucBooking.NewConfirmBooking(bookingRepo, auditDispatcher, d.Notifier)
	cancelUC := ucBooking.NewCancelBooking(bookingRepo, penaltyPolicy, auditDispatcher, d.Notifier)
	rescheduleUC := ucBooking.NewRescheduleBooking(bookingRepo, auditDispatcher, d.Notifier)
	completeUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher)
	refundUC := ucBooking.NewRefundBooking(bookingRepo, d.Gateway, auditDispatcher, d.Notifier)
	listUC := ucBooking.NewListBookings(bookingRepo)
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)
	attachUC := ucBooking.NewAttachPayment(bookingRepo, d.Gateway, auditDispatcher)

	sweepUC := ucBooking.NewSweepExpired(bookingRepo, refundUC)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB)
	bookingHandler := handlers.NewBookingHandler(
		createUC, confirmUC, cancelUC, rescheduleUC, completeUC, refundUC, listUC,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(d.DB, availabilityUC)
	webhookHandler := handlers.NewWebhookHandler(attachUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/public/tutors/:id/availability", availabilityHandler.PublicSlots)
		api.POST("/webhooks/payment", webhookHandler.Payment)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/availability", availabilityHandler.Get)
			secured.PUT("/me/availability", availabilityHandler.Update)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/reschedule", bookingHandler.Reschedule)
			secured.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)

			admin := secured.Group("/")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/admin/bookings/:id/refund", bookingHandler.Refund)
				admin.GET("/admin/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return &Wiring{Sweep: sweepUC}
}
