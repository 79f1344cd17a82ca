package command

import (
	"context"

	"github.com/tair/foodgram/internal/membership"
	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/usecase/query"
	"github.com/tair/foodgram/pkg/apperror"
)

// SubscribeCommand follows or unfollows an author
type SubscribeCommand struct {
	UserID       uint
	AuthorID     uint
	RecipesLimit int
}

// NewFollowToggle builds the membership toggle for follows
func NewFollowToggle(store membership.Store, users domain.UserRepository) *membership.Toggle {
	return membership.New("subscriptions", store, users.Exists,
		membership.WithGuard(func(userID, authorID uint) error {
			if userID == authorID {
				return apperror.Validation("cannot subscribe to yourself")
			}
			return nil
		}),
		membership.WithMessages(membership.Messages{
			TargetNotFound: "author not found",
			AlreadyMember:  "already subscribed to this author",
			NotMember:      "not subscribed to this author",
		}),
	)
}

// SubscribeHandler handles follow
type SubscribeHandler struct {
	toggle *membership.Toggle
	users  domain.UserRepository
	subs   domain.SubscriptionRepository
}

// NewSubscribeHandler creates a new subscribe handler
func NewSubscribeHandler(toggle *membership.Toggle, users domain.UserRepository, subs domain.SubscriptionRepository) *SubscribeHandler {
	return &SubscribeHandler{toggle: toggle, users: users, subs: subs}
}

// Handle follows the author and returns the new subscription entry
func (h *SubscribeHandler) Handle(ctx context.Context, cmd SubscribeCommand) (*domain.Subscription, error) {
	if err := h.toggle.Add(ctx, cmd.UserID, cmd.AuthorID); err != nil {
		return nil, err
	}

	author, err := h.users.FindByID(ctx, cmd.AuthorID)
	if err != nil {
		return nil, err
	}
	subs, err := query.LoadSubscriptions(ctx, h.subs, cmd.UserID, []domain.User{*author}, cmd.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// UnsubscribeHandler handles unfollow
type UnsubscribeHandler struct {
	toggle *membership.Toggle
}

// NewUnsubscribeHandler creates a new unsubscribe handler
func NewUnsubscribeHandler(toggle *membership.Toggle) *UnsubscribeHandler {
	return &UnsubscribeHandler{toggle: toggle}
}

// Handle unfollows the author
func (h *UnsubscribeHandler) Handle(ctx context.Context, cmd SubscribeCommand) error {
	return h.toggle.Remove(ctx, cmd.UserID, cmd.AuthorID)
}
