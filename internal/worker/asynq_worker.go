package worker

import (
	"context"
	"encoding/json"

	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/provider"
	"github.com/atelier-market/atelier-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles queued order tasks. Handlers are written for
// at-least-once delivery: missing or already-terminal orders are logged
// no-ops so redeliveries never double-apply.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPaymentSucceeded, c.handleOrderPaymentSucceeded)
	mux.HandleFunc(queue.TaskOrderPaymentFailed, c.handleOrderPaymentFailed)
}

func (c *Consumer) handleOrderPaymentSucceeded(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_succeeded_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPaymentSucceededPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_succeeded_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_payment_succeeded_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.CompleteOrder(payload.OrderID, payload.IntentID); err != nil {
		logger.Warnw("worker_payment_succeeded_complete_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderPaymentFailed(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_failed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPaymentFailedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_failed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_payment_failed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.FailOrder(payload.OrderID, payload.IntentID); err != nil {
		logger.Warnw("worker_payment_failed_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}
