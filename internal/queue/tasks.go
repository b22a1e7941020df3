package queue

import (
	"encoding/json"

	"github.com/dorada-store/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotify delivers an order event to the chat notifier
	TaskOrderNotify = constants.TaskOrderNotify
)

// OrderNotifyPayload identifies the order and the event that triggered it.
type OrderNotifyPayload struct {
	Event          string `json:"event"`
	OrderID        uint   `json:"order_id"`
	OrderNo        string `json:"order_no"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
}

// NewOrderNotifyTask encodes the payload.
func NewOrderNotifyTask(payload OrderNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotify, body), nil
}

// ParseOrderNotifyPayload decodes a task body.
func ParseOrderNotifyPayload(body []byte) (OrderNotifyPayload, error) {
	var payload OrderNotifyPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}
