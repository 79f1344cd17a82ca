package kafka

import (
	"time"

	"github.com/google/uuid"
)

// RecipeEvent describes a change that affects recipes, favorites or carts
type RecipeEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	RecipeID        uint      `json:"recipe_id"`
	UserID          uint      `json:"user_id"`
	AffectedUserIDs []uint    `json:"affected_user_ids,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeRecipeCreated   = "recipe.created"
	EventTypeRecipeUpdated   = "recipe.updated"
	EventTypeRecipeDeleted   = "recipe.deleted"
	EventTypeCartAdded       = "cart.added"
	EventTypeCartRemoved     = "cart.removed"
	EventTypeFavoriteAdded   = "favorite.added"
	EventTypeFavoriteRemoved = "favorite.removed"
)

// EventTypes lists every known event type
var EventTypes = []string{
	EventTypeRecipeCreated,
	EventTypeRecipeUpdated,
	EventTypeRecipeDeleted,
	EventTypeCartAdded,
	EventTypeCartRemoved,
	EventTypeFavoriteAdded,
	EventTypeFavoriteRemoved,
}

// Kafka topics
const (
	TopicRecipeEvents = "recipe-events"
)

// NewRecipeEvent stamps a new event with an id and the current time
func NewRecipeEvent(eventType string, recipeID, userID uint, affected ...uint) RecipeEvent {
	return RecipeEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		RecipeID:        recipeID,
		UserID:          userID,
		AffectedUserIDs: affected,
		Timestamp:       time.Now().UTC(),
	}
}

// ShoppingListOwners returns the users whose shopping list the event changes
func (e RecipeEvent) ShoppingListOwners() []uint {
	switch e.EventType {
	case EventTypeCartAdded, EventTypeCartRemoved:
		return []uint{e.UserID}
	case EventTypeRecipeUpdated, EventTypeRecipeDeleted:
		return e.AffectedUserIDs
	default:
		return nil
	}
}
