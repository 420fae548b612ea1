package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/internal/catalog"
	"focusflow/internal/domain"
	"focusflow/internal/logger"
)

// ListPackages returns the subscription plans.
func (h *Handler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": catalog.Packages()})
}

type SubscribeRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// Subscribe opens a checkout session for a premium package.
func (h *Handler) Subscribe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id is required"})
		return
	}

	checkout, err := h.Billing.CreateSubscriptionCheckout(c.Request.Context(), userID, req.PackageID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkout)
}

// PaymentStatus lets the client poll an unresolved checkout session.
func (h *Handler) PaymentStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.Billing.PollPayment(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPayments returns the user's transaction history.
func (h *Handler) ListPayments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payments, err := h.Billing.Payments(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// webhookEvent is the processor's delivery envelope.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentStatus string `json:"payment_status"`
		} `json:"object"`
	} `json:"data"`
}

// PaymentWebhook handles processor callbacks. Signature verification and
// replay suppression run as middleware before this; the pending-status
// guard in the billing service covers anything that slips through.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	var event webhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	sessionID := event.Data.Object.ID
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		if _, err := h.Billing.ConfirmPayment(c.Request.Context(), sessionID); err != nil {
			logger.Error("webhook: confirm failed", "session_id", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirm failed"})
			return
		}
	case "checkout.session.expired":
		if err := h.Billing.FailPayment(c.Request.Context(), sessionID, domain.PaymentExpired); err != nil {
			logger.Error("webhook: expire failed", "session_id", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "expire failed"})
			return
		}
	default:
		// unrecognized event types are acknowledged and ignored
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
