package public

import (
	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ToggleLike flips the caller's like on a product.
func (h *Handler) ToggleLike(c *gin.Context) {
	h.toggleEngagement(c, constants.EngagementKindLike)
}

// ToggleBookmark flips the caller's bookmark on a product.
func (h *Handler) ToggleBookmark(c *gin.Context) {
	h.toggleEngagement(c, constants.EngagementKindBookmark)
}

func (h *Handler) toggleEngagement(c *gin.Context, kind string) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	result, err := h.EngagementService.Toggle(c.Request.Context(), kind, userID, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
