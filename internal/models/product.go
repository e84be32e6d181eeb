package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is an illustration listing.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`                   // creator user id
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	SalesCount  int            `gorm:"not null;default:0" json:"sales_count"` // monotonic, bumped on completion
	ViewCount   int            `gorm:"not null;default:0" json:"view_count"`
	Tags        StringArray    `gorm:"type:json" json:"tags"`   // unordered set
	Images      StringArray    `gorm:"type:json" json:"images"` // index 0 is the primary image
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
