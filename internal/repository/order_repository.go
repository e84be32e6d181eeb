package repository

import (
	"errors"
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(orderID uint, items []models.OrderItem) error
	HasItems(orderID uint) (bool, error)
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListCompletedProductIDsByUser(userID uint) ([]uint, error)
	SetBillingAddress(id uint, address *models.BillingAddress) error
	SetPaymentIntentID(id uint, intentID string) error
	CompleteIfPending(id uint, completedAt time.Time) (bool, error)
	CancelIfPending(id uint, cancelledAt time.Time) (bool, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts a new order row.
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// CreateItems writes snapshot items for an order.
func (r *GormOrderRepository) CreateItems(orderID uint, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.Create(&items).Error
}

// HasItems reports whether snapshot items already exist for an order.
func (r *GormOrderRepository) HasItems(orderID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID fetches an order with items, nil when absent.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser fetches an order owned by the user, nil when absent.
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser lists a user's orders, newest first.
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListCompletedProductIDsByUser returns distinct product ids from the
// user's completed orders.
func (r *GormOrderRepository) ListCompletedProductIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	if userID == 0 {
		return ids, nil
	}
	err := r.db.Model(&models.OrderItem{}).
		Distinct("order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND orders.deleted_at IS NULL", userID, constants.OrderStatusCompleted).
		Pluck("order_items.product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetBillingAddress stores the confirmed billing address.
func (r *GormOrderRepository) SetBillingAddress(id uint, address *models.BillingAddress) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("billing_address", address).Error
}

// SetPaymentIntentID attaches the gateway intent reference. Write-once: a
// row that already carries an intent id is left untouched.
func (r *GormOrderRepository) SetPaymentIntentID(id uint, intentID string) error {
	return r.db.Model(&models.Order{}).
		Where("id = ? AND (payment_intent_id IS NULL OR payment_intent_id = '')", id).
		Update("payment_intent_id", intentID).Error
}

// CompleteIfPending flips pending -> completed. Returns true only for the
// caller whose conditional update changed the row; racing callers see false.
func (r *GormOrderRepository) CompleteIfPending(id uint, completedAt time.Time) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, constants.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       constants.OrderStatusCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CancelIfPending flips pending -> cancelled with the same race guard.
func (r *GormOrderRepository) CancelIfPending(id uint, cancelledAt time.Time) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, constants.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       constants.OrderStatusCancelled,
			"cancelled_at": cancelledAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete soft-deletes an order row.
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}
