package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReferralStats returns the user's referral overview including the
// commission wallet.
func (h *Handler) ReferralStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.Referrals.Stats(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ValidateReferralCode checks a code before signup and names its owner.
func (h *Handler) ValidateReferralCode(c *gin.Context) {
	code := c.Param("code")
	referrer, err := h.Referrals.ValidateCode(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "referrer_name": referrer.Name})
}

type WithdrawRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Method      string `json:"method" binding:"required,oneof=paypal bank_transfer"`
}

// RequestWithdrawal debits the wallet and records a pending payout.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents and a supported method are required"})
		return
	}

	wd, err := h.Referrals.RequestWithdrawal(c.Request.Context(), userID, req.AmountCents, req.Method)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wd)
}

// ListWithdrawals returns the payout history.
func (h *Handler) ListWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawals, err := h.Referrals.Withdrawals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}
