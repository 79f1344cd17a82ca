package query

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
)

// GetUserQuery fetches one profile as seen by ViewerID (0 for anonymous)
type GetUserQuery struct {
	ID       uint
	ViewerID uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
	subs domain.SubscriptionRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository, subs domain.SubscriptionRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo, subs: subs}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*domain.Profile, error) {
	user, err := h.repo.FindByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	following, err := h.subs.FollowingAmong(ctx, q.ViewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	profile := domain.NewProfile(user, following[user.ID])
	return &profile, nil
}
