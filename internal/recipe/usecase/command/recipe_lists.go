package command

import (
	"context"

	"github.com/tair/foodgram/internal/membership"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
)

// RecipeListCommand adds a recipe to or removes it from one of the user's lists
type RecipeListCommand struct {
	UserID   uint
	RecipeID uint
}

// FavoriteToggle is the membership toggle of favorites
type FavoriteToggle struct{ *membership.Toggle }

// CartToggle is the membership toggle of the shopping cart
type CartToggle struct{ *membership.Toggle }

// NewFavoriteToggle builds the favorites toggle
func NewFavoriteToggle(store membership.Store, recipes domain.RecipeRepository) FavoriteToggle {
	return FavoriteToggle{membership.New("favorites", store, recipes.Exists,
		membership.WithMessages(membership.Messages{
			TargetNotFound: "recipe not found",
			AlreadyMember:  "recipe is already in favorites",
			NotMember:      "recipe is not in favorites",
		}),
	)}
}

// NewCartToggle builds the shopping cart toggle
func NewCartToggle(store membership.Store, recipes domain.RecipeRepository) CartToggle {
	return CartToggle{membership.New("shopping cart", store, recipes.Exists,
		membership.WithMessages(membership.Messages{
			TargetNotFound: "recipe not found",
			AlreadyMember:  "recipe is already in the shopping cart",
			NotMember:      "recipe is not in the shopping cart",
		}),
	)}
}

type recipeList struct {
	toggle   *membership.Toggle
	recipes  domain.RecipeRepository
	notifier *Notifier
	added    string
	removed  string
}

func (l recipeList) add(ctx context.Context, cmd RecipeListCommand) (*domain.ShortRecipe, error) {
	if err := l.toggle.Add(ctx, cmd.UserID, cmd.RecipeID); err != nil {
		return nil, err
	}
	l.notifier.Notify(ctx, kafka.NewRecipeEvent(l.added, cmd.RecipeID, cmd.UserID))

	recipe, err := l.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}
	short := domain.NewShortRecipe(recipe)
	return &short, nil
}

func (l recipeList) remove(ctx context.Context, cmd RecipeListCommand) error {
	if err := l.toggle.Remove(ctx, cmd.UserID, cmd.RecipeID); err != nil {
		return err
	}
	l.notifier.Notify(ctx, kafka.NewRecipeEvent(l.removed, cmd.RecipeID, cmd.UserID))
	return nil
}

// FavoriteHandler handles favorite additions and removals
type FavoriteHandler struct {
	list recipeList
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(toggle FavoriteToggle, recipes domain.RecipeRepository, notifier *Notifier) *FavoriteHandler {
	return &FavoriteHandler{list: recipeList{
		toggle:   toggle.Toggle,
		recipes:  recipes,
		notifier: notifier,
		added:    kafka.EventTypeFavoriteAdded,
		removed:  kafka.EventTypeFavoriteRemoved,
	}}
}

// Add favorites the recipe and returns its short form
func (h *FavoriteHandler) Add(ctx context.Context, cmd RecipeListCommand) (*domain.ShortRecipe, error) {
	return h.list.add(ctx, cmd)
}

// Remove unfavorites the recipe
func (h *FavoriteHandler) Remove(ctx context.Context, cmd RecipeListCommand) error {
	return h.list.remove(ctx, cmd)
}

// CartHandler handles shopping cart additions and removals
type CartHandler struct {
	list recipeList
}

// NewCartHandler creates a new cart handler
func NewCartHandler(toggle CartToggle, recipes domain.RecipeRepository, notifier *Notifier) *CartHandler {
	return &CartHandler{list: recipeList{
		toggle:   toggle.Toggle,
		recipes:  recipes,
		notifier: notifier,
		added:    kafka.EventTypeCartAdded,
		removed:  kafka.EventTypeCartRemoved,
	}}
}

// Add puts the recipe into the cart and returns its short form
func (h *CartHandler) Add(ctx context.Context, cmd RecipeListCommand) (*domain.ShortRecipe, error) {
	return h.list.add(ctx, cmd)
}

// Remove takes the recipe out of the cart
func (h *CartHandler) Remove(ctx context.Context, cmd RecipeListCommand) error {
	return h.list.remove(ctx, cmd)
}
