package events

import (
	"context"

	"github.com/dorada-store/internal/queue"
)

// QueuePublisher hands events to the asynq worker, which retries delivery.
type QueuePublisher struct {
	client *queue.Client
}

// NewQueuePublisher wraps an enabled queue client.
func NewQueuePublisher(client *queue.Client) *QueuePublisher {
	return &QueuePublisher{client: client}
}

func (p *QueuePublisher) Publish(_ context.Context, event Event) error {
	return p.client.EnqueueOrderNotify(queue.OrderNotifyPayload{
		Event:          event.Type,
		OrderID:        event.OrderID,
		OrderNo:        event.OrderNo,
		Status:         event.Status,
		PreviousStatus: event.PreviousStatus,
	})
}
