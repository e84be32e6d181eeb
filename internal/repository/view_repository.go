package repository

import (
	"time"

	"github.com/atelier-market/atelier-api/internal/models"

	"gorm.io/gorm"
)

// ViewRepository accesses product view rows.
type ViewRepository interface {
	RecentExists(userID uint, ip string, productID uint, window time.Duration) (bool, error)
	Create(view *models.ProductView) error
	ListProductIDsByUser(userID uint) ([]uint, error)
	WithTx(tx *gorm.DB) *GormViewRepository
}

// GormViewRepository is the GORM implementation.
type GormViewRepository struct {
	db *gorm.DB
}

// NewViewRepository creates a view repository.
func NewViewRepository(db *gorm.DB) *GormViewRepository {
	return &GormViewRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormViewRepository) WithTx(tx *gorm.DB) *GormViewRepository {
	if tx == nil {
		return r
	}
	return &GormViewRepository{db: tx}
}

// RecentExists reports whether the same viewer hit the product inside the
// dedup window. Signed-in viewers key by user id, anonymous by IP.
func (r *GormViewRepository) RecentExists(userID uint, ip string, productID uint, window time.Duration) (bool, error) {
	since := time.Now().Add(-window)
	query := r.db.Model(&models.ProductView{}).
		Where("product_id = ? AND created_at >= ?", productID, since)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	} else {
		query = query.Where("user_id = 0 AND ip = ?", ip)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a view row.
func (r *GormViewRepository) Create(view *models.ProductView) error {
	return r.db.Create(view).Error
}

// ListProductIDsByUser returns distinct product ids the user viewed.
func (r *GormViewRepository) ListProductIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	if userID == 0 {
		return ids, nil
	}
	if err := r.db.Model(&models.ProductView{}).
		Distinct("product_id").
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
