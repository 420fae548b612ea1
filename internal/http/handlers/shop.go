package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusflow/internal/catalog"
)

// ListProducts returns the shop catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": catalog.Products()})
}

type PurchaseRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// PurchaseItem opens a checkout session for a shop item. Fulfillment
// happens when the processor confirms payment.
func (h *Handler) PurchaseItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	checkout, err := h.Billing.CreateItemCheckout(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkout)
}

// GetInventory returns the user's owned items.
func (h *Handler) GetInventory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	inv, err := h.Billing.Inventory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load inventory"})
		return
	}
	c.JSON(http.StatusOK, inv)
}
