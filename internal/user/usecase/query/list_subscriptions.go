package query

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/pagination"
)

// ListSubscriptionsQuery lists the authors UserID follows
type ListSubscriptionsQuery struct {
	UserID       uint
	Page         pagination.Params
	RecipesLimit int
}

// ListSubscriptionsHandler handles list subscriptions query
type ListSubscriptionsHandler struct {
	subs domain.SubscriptionRepository
}

// NewListSubscriptionsHandler creates a new list subscriptions handler
func NewListSubscriptionsHandler(subs domain.SubscriptionRepository) *ListSubscriptionsHandler {
	return &ListSubscriptionsHandler{subs: subs}
}

// Handle executes the list subscriptions query
func (h *ListSubscriptionsHandler) Handle(ctx context.Context, q ListSubscriptionsQuery) (*pagination.Page[domain.Subscription], error) {
	total, err := h.subs.CountFollowing(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	authors, err := h.subs.FindFollowing(ctx, q.UserID, q.Page.Limit, q.Page.Offset())
	if err != nil {
		return nil, err
	}

	subs, err := LoadSubscriptions(ctx, h.subs, q.UserID, authors, q.RecipesLimit)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(q.Page, total, subs)
	return &page, nil
}

// LoadSubscriptions decorates authors with their recipe preview and count
func LoadSubscriptions(ctx context.Context, subs domain.SubscriptionRepository, viewerID uint, authors []domain.User, recipesLimit int) ([]domain.Subscription, error) {
	if len(authors) == 0 {
		return []domain.Subscription{}, nil
	}

	ids := make([]uint, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}

	following, err := subs.FollowingAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	recipes, err := subs.RecipesByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := subs.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Subscription, len(authors))
	for i := range authors {
		id := authors[i].ID
		list := recipes[id]
		if list == nil {
			list = []domain.RecipeSummary{}
		}
		out[i] = domain.Subscription{
			Profile:      domain.NewProfile(&authors[i], following[id]),
			Recipes:      list,
			RecipesCount: counts[id],
		}
	}
	return out, nil
}
