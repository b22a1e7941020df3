package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dorada-store/internal/logger"
)

// Handler observes one event type.
type Handler func(ctx context.Context, event Event) error

type subscription struct {
	name    string
	handler Handler
}

// Dispatcher runs in-process observers. Each observer gets its own
// goroutine, a timeout and a recover, so Publish never blocks the caller.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	timeout  time.Duration
	wg       sync.WaitGroup
	onError  func(name string, event Event, err error)
}

// NewDispatcher creates a dispatcher; timeout bounds each observer call.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{handlers: map[string][]subscription{}, timeout: timeout}
}

// Subscribe registers handler for eventType under a name used in logs.
func (d *Dispatcher) Subscribe(eventType, name string, handler Handler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], subscription{name: name, handler: handler})
}

// OnError installs a hook called for every failed observer.
func (d *Dispatcher) OnError(fn func(name string, event Event, err error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onError = fn
}

// Publish schedules every observer of event.Type and returns immediately.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := append([]subscription(nil), d.handlers[event.Type]...)
	onError := d.onError
	d.mu.RUnlock()

	base := context.WithoutCancel(ctx)
	for _, sub := range subs {
		d.wg.Add(1)
		go d.run(base, sub, event, onError)
	}
	return nil
}

// Wait blocks until every scheduled observer returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, sub subscription, event Event, onError func(string, Event, error)) {
	defer d.wg.Done()
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("observer panic: %v", r)
			}
		}()
		return sub.handler(ctx, event)
	}()
	if err == nil {
		return
	}
	logger.Warnw("event_observer_failed",
		"observer", sub.name,
		"event", event.Type,
		"order_no", event.OrderNo,
		"error", err,
	)
	if onError != nil {
		onError(sub.name, event, err)
	}
}
