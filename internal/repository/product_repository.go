package repository

import (
	"errors"

	"github.com/atelier-market/atelier-api/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface.
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetActiveByID(id uint) (*models.Product, error)
	ListActiveExcluding(excludeID uint) ([]models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	IncrementViewCount(id uint) error
	IncrementSalesCounts(productIDs []uint) error
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID fetches a product, nil when absent.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetActiveByID fetches an active product, nil when absent or inactive.
func (r *GormProductRepository) GetActiveByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListActiveExcluding lists active products except the given one, id
// ascending so downstream ordering is deterministic.
func (r *GormProductRepository) ListActiveExcluding(excludeID uint) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Where("is_active = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByIDs fetches products by id, id ascending.
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// IncrementViewCount bumps view_count by one.
func (r *GormProductRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// IncrementSalesCounts bumps sales_count for each product once.
func (r *GormProductRepository) IncrementSalesCounts(productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).
		Where("id IN ?", productIDs).
		UpdateColumn("sales_count", gorm.Expr("sales_count + 1")).Error
}
