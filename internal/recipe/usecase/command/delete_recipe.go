package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// DeleteRecipeCommand removes a recipe
type DeleteRecipeCommand struct {
	ID     uint
	UserID uint
}

// DeleteRecipeHandler handles recipe deletion
type DeleteRecipeHandler struct {
	recipes  domain.RecipeRepository
	notifier *Notifier
}

// NewDeleteRecipeHandler creates a new delete recipe handler
func NewDeleteRecipeHandler(recipes domain.RecipeRepository, notifier *Notifier) *DeleteRecipeHandler {
	return &DeleteRecipeHandler{recipes: recipes, notifier: notifier}
}

// Handle executes the delete recipe command
func (h *DeleteRecipeHandler) Handle(ctx context.Context, cmd DeleteRecipeCommand) error {
	if _, err := authorOf(ctx, h.recipes, cmd.ID, cmd.UserID); err != nil {
		return err
	}

	// carts must be read before the rows cascade away
	affected, err := h.recipes.CartUsers(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if err := h.recipes.Delete(ctx, cmd.ID); err != nil {
		return err
	}

	logger.Info(ctx).Uint("recipe_id", cmd.ID).Int("carts", len(affected)).Msg("Recipe deleted")
	h.notifier.Notify(ctx, kafka.NewRecipeEvent(kafka.EventTypeRecipeDeleted, cmd.ID, cmd.UserID, affected...))
	return nil
}
