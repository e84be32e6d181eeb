package models

import "time"

// ProductView records one product page view. UserID is 0 for anonymous
// viewers; IP keys the dedup window in that case.
type ProductView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"` // 0 = anonymous
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	IP        string    `gorm:"type:varchar(64);index" json:"ip"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (ProductView) TableName() string {
	return "product_views"
}
