package public

import (
	"github.com/atelier-market/atelier-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProduct serves the product page: the product itself, the viewer's
// engagement state, and recommendations. The view is recorded as a side
// effect; anonymous viewers count too.
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	viewerID := optionalUserID(c)

	page, err := h.ProductService.GetPage(productID, viewerID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, page)
}
