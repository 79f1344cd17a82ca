package query

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/pagination"
)

// ListUsersQuery represents the query to list users
type ListUsersQuery struct {
	ViewerID uint
	Page     pagination.Params
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
	subs domain.SubscriptionRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository, subs domain.SubscriptionRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo, subs: subs}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (*pagination.Page[domain.Profile], error) {
	total, err := h.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := h.repo.FindAll(ctx, q.Page.Limit, q.Page.Offset())
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	following, err := h.subs.FollowingAmong(ctx, q.ViewerID, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, len(users))
	for i := range users {
		profiles[i] = domain.NewProfile(&users[i], following[users[i].ID])
	}
	page := pagination.NewPage(q.Page, total, profiles)
	return &page, nil
}
