package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BillingAddress is the buyer-confirmed address, stored as a json column.
// Null until checkout is submitted.
type BillingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Value writes to the database.
func (a BillingAddress) Value() (driver.Value, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan reads from the database.
func (a *BillingAddress) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan billing address: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, a)
}

// Order is a purchase. Status moves pending -> completed or cancelled only;
// total_amount and payment_intent_id are write-once.
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	Status          string          `gorm:"index;not null" json:"status"`
	TotalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	BillingAddress  *BillingAddress `gorm:"type:json" json:"billing_address,omitempty"`
	PaymentIntentID string          `gorm:"index" json:"payment_intent_id,omitempty"` // empty until a gateway intent is attached
	CompletedAt     *time.Time      `gorm:"index" json:"completed_at"`
	CancelledAt     *time.Time      `gorm:"index" json:"cancelled_at"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
