package constants

// Order status constants. StatusProcessing is reserved for a future
// fulfillment step; no code path transitions into it.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Engagement kind constants
const (
	EngagementKindLike     = "like"
	EngagementKindBookmark = "bookmark"
)

// Notification kind constants
const (
	NotificationKindLike           = "product_liked"
	NotificationKindBookmark       = "product_bookmarked"
	NotificationKindFollow         = "user_followed"
	NotificationKindOrderCompleted = "order_completed"
)

// Payment intent status constants (gateway vocabulary)
const (
	IntentStatusRequiresPayment = "requires_payment_method"
	IntentStatusProcessing      = "processing"
	IntentStatusSucceeded       = "succeeded"
	IntentStatusCanceled        = "canceled"
)

// Gateway webhook event types the workflow reacts to
const (
	WebhookEventPaymentSucceeded = "payment_intent.succeeded"
	WebhookEventPaymentFailed    = "payment_intent.payment_failed"
	WebhookEventPaymentCanceled  = "payment_intent.canceled"
)

// Queue constants
const (
	QueueDefault              = "default"
	TaskOrderPaymentSucceeded = "order:payment_succeeded"
	TaskOrderPaymentFailed    = "order:payment_failed"
)

// Rate limit action constants
const (
	RateActionToggleLike     = "toggle_like"
	RateActionToggleBookmark = "toggle_bookmark"
	RateActionToggleFollow   = "toggle_follow"
)

// Engagement toggle limits: 60 toggles per rolling 60s window per actor.
const (
	ToggleWindowSecondsDefault = 60
	ToggleMaxDefault           = 60
)

// View dedup window in minutes: duplicate view rows for the same
// (user-or-ip, product) pair are suppressed inside this window.
const ViewDedupWindowMinutes = 60

// Recommendation defaults
const (
	RecommendLimitDefault = 4
)

// Cache constants
const (
	RedisPrefixDefault = "atl"
)

// Site currency constants
const SiteCurrencyDefault = "USD"
