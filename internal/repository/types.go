package repository

// OrderListFilter filters a user's order listing.
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}

// NotificationListFilter filters a recipient's notification listing.
type NotificationListFilter struct {
	Page        int
	PageSize    int
	RecipientID uint
	UnreadOnly  bool
}
