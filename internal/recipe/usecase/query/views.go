package query

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
)

// LoadViews resolves the viewer's favorite, cart and follow flags for recipes.
// Anonymous viewers (id 0) get all flags false without storage access.
func LoadViews(ctx context.Context, recipes domain.RecipeRepository, subs userdomain.SubscriptionRepository, viewerID uint, list []domain.Recipe) ([]domain.RecipeView, error) {
	flags := domain.ViewerFlags{}
	if viewerID != 0 && len(list) > 0 {
		ids := make([]uint, len(list))
		authors := make([]uint, 0, len(list))
		seen := make(map[uint]bool, len(list))
		for i := range list {
			ids[i] = list[i].ID
			if !seen[list[i].AuthorID] {
				seen[list[i].AuthorID] = true
				authors = append(authors, list[i].AuthorID)
			}
		}

		var err error
		if flags.Favorited, err = recipes.FavoritedAmong(ctx, viewerID, ids); err != nil {
			return nil, err
		}
		if flags.InCart, err = recipes.InCartAmong(ctx, viewerID, ids); err != nil {
			return nil, err
		}
		if flags.Following, err = subs.FollowingAmong(ctx, viewerID, authors); err != nil {
			return nil, err
		}
	}

	views := make([]domain.RecipeView, len(list))
	for i := range list {
		views[i] = domain.NewRecipeView(&list[i], flags)
	}
	return views, nil
}
