package worker

import (
	"context"
	"fmt"

	"github.com/dorada-store/internal/events"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/provider"
	"github.com/dorada-store/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer runs queued order notifications.
type Consumer struct {
	handle events.Handler
}

// NewConsumer routes queued events to the container's notifier.
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil || c.NotificationService == nil {
		return &Consumer{}
	}
	return &Consumer{handle: c.NotificationService.HandleEvent}
}

// Register attaches the task handlers to mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotify, c.handleOrderNotify)
}

func (c *Consumer) handleOrderNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderNotifyPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_notify_unmarshal_failed", "error", err)
		// a malformed body never gets better on retry
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notify_skip_invalid_payload", "order_no", payload.OrderNo)
		return nil
	}
	if c.handle == nil {
		logger.Warnw("worker_order_notify_skip_handler_nil", "order_id", payload.OrderID)
		return nil
	}
	event := events.Event{
		Type:           payload.Event,
		OrderID:        payload.OrderID,
		OrderNo:        payload.OrderNo,
		Status:         payload.Status,
		PreviousStatus: payload.PreviousStatus,
	}
	if err := c.handle(ctx, event); err != nil {
		logger.Warnw("worker_order_notify_failed",
			"order_id", payload.OrderID,
			"order_no", payload.OrderNo,
			"event", payload.Event,
			"error", err,
		)
		return err
	}
	return nil
}
