package query

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/pagination"
)

// ListRecipesQuery represents the query to list recipes
type ListRecipesQuery struct {
	ViewerID         uint
	Page             pagination.Params
	TagSlugs         []string
	AuthorID         uint
	IsFavorited      bool
	IsInShoppingCart bool
}

// Filter translates the query into a repository filter. Viewer-relative
// filters are dropped for anonymous viewers.
func (q ListRecipesQuery) Filter() domain.RecipeFilter {
	f := domain.RecipeFilter{TagSlugs: q.TagSlugs, AuthorID: q.AuthorID}
	if q.ViewerID != 0 {
		if q.IsFavorited {
			f.FavoritedBy = q.ViewerID
		}
		if q.IsInShoppingCart {
			f.InCartOf = q.ViewerID
		}
	}
	return f
}

// ListRecipesHandler handles list recipes query
type ListRecipesHandler struct {
	recipes domain.RecipeRepository
	subs    userdomain.SubscriptionRepository
}

// NewListRecipesHandler creates a new list recipes handler
func NewListRecipesHandler(recipes domain.RecipeRepository, subs userdomain.SubscriptionRepository) *ListRecipesHandler {
	return &ListRecipesHandler{recipes: recipes, subs: subs}
}

// Handle executes the list recipes query
func (h *ListRecipesHandler) Handle(ctx context.Context, q ListRecipesQuery) (*pagination.Page[domain.RecipeView], error) {
	recipes, total, err := h.recipes.List(ctx, q.Filter(), q.Page.Limit, q.Page.Offset())
	if err != nil {
		return nil, err
	}
	views, err := LoadViews(ctx, h.recipes, h.subs, q.ViewerID, recipes)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(q.Page, total, views)
	return &page, nil
}
