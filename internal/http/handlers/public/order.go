package public

import (
	"strings"

	"github.com/atelier-market/atelier-api/internal/http/response"
	"github.com/atelier-market/atelier-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders pages the caller's orders.
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// GetOrder returns one of the caller's orders. Pending orders are first
// reconciled against the gateway, using the payment_intent query parameter
// or the stored intent reference, so a buyer returning from the card form
// sees the settled state without waiting for the webhook.
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	intentID := strings.TrimSpace(c.Query("payment_intent"))

	order, err := h.OrderService.ReconcileOnView(c.Request.Context(), userID, orderID, intentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder removes the caller's own pending order.
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.CancelOrder(userID, orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
