package models

import "time"

// Like marks that a user likes a product. Row existence is the whole truth;
// counts are derived with COUNT.
type Like struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_like_user_product;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (Like) TableName() string {
	return "likes"
}

// Bookmark marks that a user saved a product.
type Bookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_product;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (Bookmark) TableName() string {
	return "bookmarks"
}
