package queue

import (
	"encoding/json"

	"github.com/atelier-market/atelier-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPaymentSucceeded completes an order after the gateway
	// confirms payment.
	TaskOrderPaymentSucceeded = constants.TaskOrderPaymentSucceeded
	// TaskOrderPaymentFailed cancels a pending order after the gateway
	// reports failure.
	TaskOrderPaymentFailed = constants.TaskOrderPaymentFailed
)

// OrderPaymentSucceededPayload carries the webhook's intent reference so
// the worker can guard against a mismatched stored intent.
type OrderPaymentSucceededPayload struct {
	OrderID  uint   `json:"order_id"`
	IntentID string `json:"intent_id"`
}

// OrderPaymentFailedPayload identifies the order to cancel.
type OrderPaymentFailedPayload struct {
	OrderID  uint   `json:"order_id"`
	IntentID string `json:"intent_id"`
}

// NewOrderPaymentSucceededTask builds a payment-succeeded task.
func NewOrderPaymentSucceededTask(payload OrderPaymentSucceededPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaymentSucceeded, body), nil
}

// NewOrderPaymentFailedTask builds a payment-failed task.
func NewOrderPaymentFailedTask(payload OrderPaymentFailedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaymentFailed, body), nil
}
