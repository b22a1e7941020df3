package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/dorada-store/internal/logger"
)

// Multi fans an event out to several sinks. Every sink is attempted; the
// joined error only reports which ones failed.
type Multi struct {
	sinks []namedPublisher
}

type namedPublisher struct {
	name      string
	publisher Publisher
}

// NewMulti creates an empty fan-out.
func NewMulti() *Multi {
	return &Multi{}
}

// Add appends a sink; nil publishers are ignored.
func (m *Multi) Add(name string, publisher Publisher) *Multi {
	if publisher != nil {
		m.sinks = append(m.sinks, namedPublisher{name: name, publisher: publisher})
	}
	return m
}

// Len returns the number of sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

func (m *Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.publisher.Publish(ctx, event); err != nil {
			logger.Warnw("event_sink_failed", "sink", sink.name, "event", event.Type, "order_no", event.OrderNo, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.name, err))
		}
	}
	return errors.Join(errs...)
}
