package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/cache"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// Notifier announces committed changes. Failures are logged only: the change is already stored.
type Notifier struct {
	events kafka.EventPublisher
	cache  cache.ShoppingListCache
}

// NewNotifier creates a notifier. Nil arguments disable the matching side effect.
func NewNotifier(events kafka.EventPublisher, c cache.ShoppingListCache) *Notifier {
	if c == nil {
		c = cache.NopShoppingListCache{}
	}
	return &Notifier{events: events, cache: c}
}

// Notify drops affected shopping lists and publishes the event
func (n *Notifier) Notify(ctx context.Context, event kafka.RecipeEvent) {
	if owners := event.ShoppingListOwners(); len(owners) > 0 {
		if err := n.cache.Invalidate(ctx, owners...); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("event_type", event.EventType).
				Msg("Failed to invalidate shopping lists")
		}
	}
	if n.events == nil {
		return
	}
	if err := n.events.Publish(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Uint("recipe_id", event.RecipeID).
			Msg("Failed to publish recipe event")
	}
}
