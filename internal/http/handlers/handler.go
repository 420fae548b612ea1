package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow/internal/service"
)

// Handler bundles the service dependencies shared by the API endpoints.
type Handler struct {
	DB          *pgxpool.Pool
	Users       *service.UserService
	Progression *service.ProgressionService
	Referrals   *service.ReferralService
	Billing     *service.BillingService
}

func NewHandler(db *pgxpool.Pool, users *service.UserService, progression *service.ProgressionService, referrals *service.ReferralService, billing *service.BillingService) *Handler {
	return &Handler{
		DB:          db,
		Users:       users,
		Progression: progression,
		Referrals:   referrals,
		Billing:     billing,
	}
}

// getUserID extracts the authenticated user id from the gin context
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := uidVal.(int64)
	return id, ok
}

// writeServiceError maps the service sentinels to HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrDuplicateReferral),
		errors.Is(err, service.ErrSelfReferral):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidReferralCode),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrUnknownPackage),
		errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
