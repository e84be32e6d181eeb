package repository

import (
	"github.com/atelier-market/atelier-api/internal/models"

	"gorm.io/gorm"
)

// FollowRepository accesses follow rows.
type FollowRepository interface {
	Exists(followerID, followeeID uint) (bool, error)
	Create(followerID, followeeID uint) error
	Delete(followerID, followeeID uint) error
	CountFollowers(followeeID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormFollowRepository
}

// GormFollowRepository is the GORM implementation.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a follow repository.
func NewFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormFollowRepository) WithTx(tx *gorm.DB) *GormFollowRepository {
	if tx == nil {
		return r
	}
	return &GormFollowRepository{db: tx}
}

// Exists reports whether the follow pair is present.
func (r *GormFollowRepository) Exists(followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the follow pair.
func (r *GormFollowRepository) Create(followerID, followeeID uint) error {
	return r.db.Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

// Delete removes the follow pair.
func (r *GormFollowRepository) Delete(followerID, followeeID uint) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{}).Error
}

// CountFollowers counts a creator's followers.
func (r *GormFollowRepository) CountFollowers(followeeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("followee_id = ?", followeeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
