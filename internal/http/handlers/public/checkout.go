package public

import (
	"github.com/atelier-market/atelier-api/internal/http/response"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitOrderRequest confirms a checkout with a billing address.
type SubmitOrderRequest struct {
	OrderID        uint                  `json:"order_id"`
	BillingAddress models.BillingAddress `json:"billing_address" binding:"required"`
}

// OpenCheckout validates the cart, opens a pending order, and returns the
// payment intent's client secret for the card form.
func (h *Handler) OpenCheckout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, intent, err := h.OrderService.OpenCheckout(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":         order,
		"intent_id":     intent.ID,
		"client_secret": intent.ClientSecret,
	})
}

// SubmitOrder confirms the checkout: billing address, item snapshot, cart
// clear.
func (h *Handler) SubmitOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "billing_address is required")
		return
	}
	order, err := h.OrderService.SubmitOrder(c.Request.Context(), service.SubmitOrderInput{
		UserID:         userID,
		OrderID:        req.OrderID,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
