package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/logger"
)

// UpdateRecipeCommand replaces a recipe's content
type UpdateRecipeCommand struct {
	ID     uint
	UserID uint
	Input  RecipeInput
}

// UpdateRecipeHandler handles recipe updates
type UpdateRecipeHandler struct {
	recipes  domain.RecipeRepository
	subs     userdomain.SubscriptionRepository
	resolver resolver
	notifier *Notifier
}

// NewUpdateRecipeHandler creates a new update recipe handler
func NewUpdateRecipeHandler(
	recipes domain.RecipeRepository,
	tags domain.TagRepository,
	ingredients domain.IngredientRepository,
	subs userdomain.SubscriptionRepository,
	notifier *Notifier,
	limits Limits,
) *UpdateRecipeHandler {
	return &UpdateRecipeHandler{
		recipes:  recipes,
		subs:     subs,
		resolver: resolver{tags: tags, ingredients: ingredients, limits: limits},
		notifier: notifier,
	}
}

// authorOf loads the recipe and checks that userID wrote it
func authorOf(ctx context.Context, recipes domain.RecipeRepository, id, userID uint) (*domain.Recipe, error) {
	recipe, err := recipes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, apperror.Forbidden("only the author can change this recipe")
	}
	return recipe, nil
}

// Handle executes the update recipe command
func (h *UpdateRecipeHandler) Handle(ctx context.Context, cmd UpdateRecipeCommand) (*domain.RecipeView, error) {
	recipe, err := authorOf(ctx, h.recipes, cmd.ID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := h.resolver.apply(ctx, cmd.Input, recipe); err != nil {
		return nil, err
	}
	if err := h.recipes.Update(ctx, recipe); err != nil {
		return nil, err
	}

	affected, err := h.recipes.CartUsers(ctx, recipe.ID)
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("recipe_id", recipe.ID).Msg("Failed to list carts holding recipe")
	}
	logger.Info(ctx).Uint("recipe_id", recipe.ID).Msg("Recipe updated")
	h.notifier.Notify(ctx, kafka.NewRecipeEvent(kafka.EventTypeRecipeUpdated, recipe.ID, cmd.UserID, affected...))

	return reload(ctx, h.recipes, h.subs, recipe.ID, cmd.UserID)
}
