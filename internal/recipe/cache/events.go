package cache

import (
	"context"

	"github.com/tair/foodgram/kafka"
)

// InvalidateOnEvent drops the shopping lists an event changes
func InvalidateOnEvent(c ShoppingListCache) kafka.EventHandler {
	return func(ctx context.Context, event kafka.RecipeEvent) error {
		owners := event.ShoppingListOwners()
		if len(owners) == 0 {
			return nil
		}
		return c.Invalidate(ctx, owners...)
	}
}
