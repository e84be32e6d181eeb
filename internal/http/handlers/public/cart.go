package public

import (
	"github.com/atelier-market/atelier-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest names a product for cart mutations.
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ListCart returns the caller's cart contents.
func (h *Handler) ListCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.ListByUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddCartItem puts a product into the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "product_id is required")
		return
	}
	if err := h.CartService.AddItem(userID, req.ProductID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveCartItem deletes one cart line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "product_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(userID, productID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
