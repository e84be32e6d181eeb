package repository

import (
	"time"

	"github.com/atelier-market/atelier-api/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository accesses notification rows.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByRecipient(filter NotificationListFilter) ([]models.Notification, int64, error)
	MarkRead(id uint, recipientID uint, readAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormNotificationRepository
}

// GormNotificationRepository is the GORM implementation.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) *GormNotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// Create inserts a notification row.
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByRecipient lists a recipient's notifications, newest first.
func (r *GormNotificationRepository) ListByRecipient(filter NotificationListFilter) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{}).Where("recipient_id = ?", filter.RecipientID)
	if filter.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead stamps read_at on an unread notification owned by the recipient.
// Returns false when nothing matched.
func (r *GormNotificationRepository) MarkRead(id uint, recipientID uint, readAt time.Time) (bool, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", id, recipientID).
		Update("read_at", readAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
