package query

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
)

// GetRecipeQuery represents the query to get a recipe
type GetRecipeQuery struct {
	ID       uint
	ViewerID uint
}

// GetRecipeHandler handles get recipe query
type GetRecipeHandler struct {
	recipes domain.RecipeRepository
	subs    userdomain.SubscriptionRepository
}

// NewGetRecipeHandler creates a new get recipe handler
func NewGetRecipeHandler(recipes domain.RecipeRepository, subs userdomain.SubscriptionRepository) *GetRecipeHandler {
	return &GetRecipeHandler{recipes: recipes, subs: subs}
}

// Handle executes the get recipe query
func (h *GetRecipeHandler) Handle(ctx context.Context, q GetRecipeQuery) (*domain.RecipeView, error) {
	recipe, err := h.recipes.FindByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	views, err := LoadViews(ctx, h.recipes, h.subs, q.ViewerID, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
