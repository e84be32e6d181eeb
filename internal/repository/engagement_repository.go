package repository

import (
	"fmt"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository accesses like and bookmark rows. Every method takes
// the kind so the service layer stays table-agnostic.
type EngagementRepository interface {
	Exists(kind string, userID, productID uint) (bool, error)
	Create(kind string, userID, productID uint) error
	Delete(kind string, userID, productID uint) error
	CountByProduct(kind string, productID uint) (int64, error)
	CountsByProductIDs(kind string, productIDs []uint) (map[uint]int64, error)
	ListProductIDsByUser(kind string, userID uint) ([]uint, error)
	WithTx(tx *gorm.DB) *GormEngagementRepository
}

// GormEngagementRepository is the GORM implementation.
type GormEngagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates an engagement repository.
func NewEngagementRepository(db *gorm.DB) *GormEngagementRepository {
	return &GormEngagementRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormEngagementRepository) WithTx(tx *gorm.DB) *GormEngagementRepository {
	if tx == nil {
		return r
	}
	return &GormEngagementRepository{db: tx}
}

func (r *GormEngagementRepository) model(kind string) (interface{}, error) {
	switch kind {
	case constants.EngagementKindLike:
		return &models.Like{}, nil
	case constants.EngagementKindBookmark:
		return &models.Bookmark{}, nil
	default:
		return nil, fmt.Errorf("unknown engagement kind: %s", kind)
	}
}

// Exists reports whether the (user, product) row is present.
func (r *GormEngagementRepository) Exists(kind string, userID, productID uint) (bool, error) {
	model, err := r.model(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.Model(model).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the row.
func (r *GormEngagementRepository) Create(kind string, userID, productID uint) error {
	switch kind {
	case constants.EngagementKindLike:
		return r.db.Create(&models.Like{UserID: userID, ProductID: productID}).Error
	case constants.EngagementKindBookmark:
		return r.db.Create(&models.Bookmark{UserID: userID, ProductID: productID}).Error
	default:
		return fmt.Errorf("unknown engagement kind: %s", kind)
	}
}

// Delete removes the row if present.
func (r *GormEngagementRepository) Delete(kind string, userID, productID uint) error {
	model, err := r.model(kind)
	if err != nil {
		return err
	}
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(model).Error
}

// CountByProduct counts rows for one product.
func (r *GormEngagementRepository) CountByProduct(kind string, productID uint) (int64, error) {
	model, err := r.model(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.Model(model).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountsByProductIDs counts rows per product in one grouped query. Products
// without rows are absent from the result map.
func (r *GormEngagementRepository) CountsByProductIDs(kind string, productIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}
	model, err := r.model(kind)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ProductID uint
		Total     int64
	}
	if err := r.db.Model(model).
		Select("product_id, COUNT(*) AS total").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProductID] = row.Total
	}
	return counts, nil
}

// ListProductIDsByUser lists the product ids a user engaged with.
func (r *GormEngagementRepository) ListProductIDsByUser(kind string, userID uint) ([]uint, error) {
	model, err := r.model(kind)
	if err != nil {
		return nil, err
	}
	var ids []uint
	if err := r.db.Model(model).
		Where("user_id = ?", userID).
		Order("id desc").
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
