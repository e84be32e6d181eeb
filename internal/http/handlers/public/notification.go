package public

import (
	"github.com/atelier-market/atelier-api/internal/http/response"
	"github.com/atelier-market/atelier-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListNotifications pages the caller's notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	notifications, total, err := h.NotificationService.ListByRecipient(repository.NotificationListFilter{
		Page:        page,
		PageSize:    pageSize,
		RecipientID: userID,
		UnreadOnly:  c.Query("unread") == "1",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, notifications, buildPagination(page, pageSize, total))
}

// ReadNotification marks one of the caller's notifications read.
func (h *Handler) ReadNotification(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	updated, err := h.NotificationService.MarkRead(id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !updated {
		response.NotFound(c, "notification not found")
		return
	}
	response.Success(c, nil)
}
