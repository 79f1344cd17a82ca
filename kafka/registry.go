package kafka

import (
	"context"
	"errors"
	"sync"

	"github.com/tair/foodgram/pkg/logger"
)

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event RecipeEvent) error

// Registry routes events to the handlers registered for their type
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]EventHandler)}
}

// RegisterHandler registers an event handler for the given event types
func (r *Registry) RegisterHandler(handler EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		r.handlers[t] = append(r.handlers[t], handler)
		logger.Logger.Debug().Str("event_type", t).Msg("Event handler registered")
	}
}

// HasHandler reports whether any handler is registered for eventType
func (r *Registry) HasHandler(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[eventType]) > 0
}

// Dispatch runs every handler of the event's type. All handlers run even if one fails.
func (r *Registry) Dispatch(ctx context.Context, event RecipeEvent) error {
	r.mu.RLock()
	handlers := r.handlers[event.EventType]
	r.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LocalBus publishes events to in-process handlers synchronously. Used when no brokers are configured.
type LocalBus struct {
	*Registry
}

// NewLocalBus creates a bus with an empty registry
func NewLocalBus() *LocalBus {
	return &LocalBus{Registry: NewRegistry()}
}

// Publish dispatches the event. Handler failures are logged, not returned, as with an asynchronous consumer.
func (b *LocalBus) Publish(ctx context.Context, event RecipeEvent) error {
	if err := b.Dispatch(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Str("event_id", event.EventID).
			Msg("Failed to handle event")
	}
	return nil
}
