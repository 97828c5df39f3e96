package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	ucBooking "github.com/supermarios77/Linglix-sub002/internal/usecase/booking"
)

type WebhookHandler struct {
	attach *ucBooking.AttachPayment
}

func NewWebhookHandler(attach *ucBooking.AttachPayment) *WebhookHandler {
	return &WebhookHandler{attach: attach}
}

type paymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Payment receives the gateway's payment notifications. The notification
// body is only a pointer: the payment itself is re-fetched from the gateway
// before anything is recorded, so a forged body cannot attach a payment.
// Always answers 200 for events we do not care about, so the gateway stops
// redelivering them.
func (h *WebhookHandler) Payment(c *gin.Context) {
	var n paymentNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if n.Type != "payment" || n.Data.ID == "" {
		c.Status(http.StatusOK)
		return
	}

	if _, err := h.attach.Execute(c.Request.Context(), n.Data.ID); err != nil {
		// Non-2xx makes the gateway redeliver; that is what we want for
		// transient failures on our side.
		log.Printf("webhook: attach payment %s failed: %v", n.Data.ID, err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}
