package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// CreateRecipeCommand publishes a new recipe
type CreateRecipeCommand struct {
	AuthorID uint
	Input    RecipeInput
}

// CreateRecipeHandler handles recipe creation
type CreateRecipeHandler struct {
	recipes  domain.RecipeRepository
	subs     userdomain.SubscriptionRepository
	resolver resolver
	notifier *Notifier
}

// NewCreateRecipeHandler creates a new create recipe handler
func NewCreateRecipeHandler(
	recipes domain.RecipeRepository,
	tags domain.TagRepository,
	ingredients domain.IngredientRepository,
	subs userdomain.SubscriptionRepository,
	notifier *Notifier,
	limits Limits,
) *CreateRecipeHandler {
	return &CreateRecipeHandler{
		recipes:  recipes,
		subs:     subs,
		resolver: resolver{tags: tags, ingredients: ingredients, limits: limits},
		notifier: notifier,
	}
}

// Handle validates, stores and returns the recipe as its author sees it
func (h *CreateRecipeHandler) Handle(ctx context.Context, cmd CreateRecipeCommand) (*domain.RecipeView, error) {
	recipe := &domain.Recipe{AuthorID: cmd.AuthorID}
	if err := h.resolver.apply(ctx, cmd.Input, recipe); err != nil {
		return nil, err
	}
	if err := h.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("author_id", recipe.AuthorID).
		Int("ingredients", len(recipe.Ingredients)).
		Msg("Recipe created")
	h.notifier.Notify(ctx, kafka.NewRecipeEvent(kafka.EventTypeRecipeCreated, recipe.ID, cmd.AuthorID))

	return reload(ctx, h.recipes, h.subs, recipe.ID, cmd.AuthorID)
}

func reload(ctx context.Context, recipes domain.RecipeRepository, subs userdomain.SubscriptionRepository, id, viewerID uint) (*domain.RecipeView, error) {
	return query.NewGetRecipeHandler(recipes, subs).Handle(ctx, query.GetRecipeQuery{ID: id, ViewerID: viewerID})
}
