package bus

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"furniture-admin/internal/domain/event"
)

// ErrBusStopped is returned when publishing on a stopped bus
var ErrBusStopped = stderrors.New("event bus is not running")

// EventBus defines the contract for event publishing/subscribing
type EventBus interface {
	Publish(ctx context.Context, event event.DomainEvent) error
	Subscribe(eventType string, handler EventHandler) error
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event event.DomainEvent) error
}

// EventHandlerFunc allows functions to implement EventHandler
type EventHandlerFunc func(ctx context.Context, event event.DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event event.DomainEvent) error {
	return f(ctx, event)
}

// InMemoryEventBus dispatches events synchronously to every subscriber of
// the event type. Subscribers run in registration order.
type InMemoryEventBus struct {
	handlers map[string][]EventHandler
	mutex    sync.RWMutex
	running  bool
}

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, event event.DomainEvent) error {
	b.mutex.RLock()
	running := b.running
	handlers := b.handlers[event.EventType()]
	b.mutex.RUnlock()

	if !running {
		return ErrBusStopped
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("handler error for %s: %w", event.EventType(), err))
		}
	}

	return stderrors.Join(errs...)
}

func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.running = true
	return nil
}

func (b *InMemoryEventBus) Stop() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.running = false
	return nil
}
