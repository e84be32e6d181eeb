package models

import "time"

// Notification is a persisted in-app notice. Delivery is fire-and-forget;
// write failures are logged and never surfaced to the triggering flow.
type Notification struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	RecipientID uint       `gorm:"not null;index" json:"recipient_id"`
	Kind        string     `gorm:"type:varchar(50);not null;index" json:"kind"`
	Payload     JSON       `gorm:"type:json" json:"payload"`
	ReadAt      *time.Time `gorm:"index" json:"read_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}
