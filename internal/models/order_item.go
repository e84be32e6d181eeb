package models

import "time"

// OrderItem is a price snapshot of one product inside an order. Rows are
// written once at checkout submission and never mutated.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Title     string    `gorm:"not null" json:"title"` // title at purchase time
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
