package public

import (
	"github.com/atelier-market/atelier-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ToggleFollow flips the caller's follow on a creator.
func (h *Handler) ToggleFollow(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	followeeID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	result, err := h.FollowService.Toggle(c.Request.Context(), userID, followeeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
