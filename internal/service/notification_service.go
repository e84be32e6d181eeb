package service

import (
	"time"

	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"
)

// NotificationService persists in-app notifications. Notify is
// fire-and-forget: a failed write is logged and never propagates to the
// flow that triggered it.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify writes one notification row for the recipient.
func (s *NotificationService) Notify(recipientID uint, kind string, payload models.JSON) {
	if s == nil || s.notificationRepo == nil || recipientID == 0 {
		return
	}
	notification := &models.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Payload:     payload,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Errorw("notification_create_failed",
			"recipient_id", recipientID,
			"kind", kind,
			"error", err,
		)
	}
}

// ListByRecipient pages a recipient's notifications.
func (s *NotificationService) ListByRecipient(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	return s.notificationRepo.ListByRecipient(filter)
}

// MarkRead stamps a notification read. Returns false when the id does not
// exist, belongs to someone else, or is already read.
func (s *NotificationService) MarkRead(id uint, recipientID uint) (bool, error) {
	return s.notificationRepo.MarkRead(id, recipientID, time.Now())
}
