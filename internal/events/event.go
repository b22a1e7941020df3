// Package events carries order lifecycle events from the order workflow to
// notification sinks. Publishing is best effort: a failing sink is logged
// and never affects the operation that raised the event.
package events

import (
	"context"
	"time"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/models"

	"github.com/google/uuid"
)

// Event is the wire form shared by every sink.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	OrderID        uint      `json:"order_id"`
	OrderNo        string    `json:"order_no"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Total          int64     `json:"total"`
	Currency       string    `json:"currency"`
	ItemCount      int       `json:"item_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher delivers events to one sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// OrderCreated builds the event raised after checkout commits.
func OrderCreated(order *models.Order) Event {
	return newOrderEvent(constants.EventOrderCreated, order, "")
}

// OrderStatusChanged builds the event raised after a status change commits.
func OrderStatusChanged(order *models.Order, previous string) Event {
	return newOrderEvent(constants.EventOrderStatusChanged, order, previous)
}

func newOrderEvent(eventType string, order *models.Order, previous string) Event {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	return Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrderID:        order.ID,
		OrderNo:        order.OrderNo,
		Status:         order.Status,
		PreviousStatus: previous,
		Total:          order.Total,
		Currency:       order.Currency,
		ItemCount:      itemCount,
		OccurredAt:     time.Now().UTC(),
	}
}
