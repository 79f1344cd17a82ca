package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/domain/domaintest"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/auth"
)

func register(t *testing.T, repo domain.UserRepository, username string) *domain.User {
	t.Helper()
	user, err := NewRegisterUserHandler(repo).Handle(context.Background(), RegisterUserCommand{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "long-enough-pw",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterUser(t *testing.T) {
	repo := domaintest.NewMemory()
	user := register(t, repo, "chef")

	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "long-enough-pw", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "long-enough-pw"))
}

func TestRegisterUserValidation(t *testing.T) {
	h := NewRegisterUserHandler(domaintest.NewMemory())
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"bad email", RegisterUserCommand{Email: "nope", Username: "a", FirstName: "A", LastName: "B", Password: "12345678"}},
		{"bad username", RegisterUserCommand{Email: "a@b.c", Username: "has space", FirstName: "A", LastName: "B", Password: "12345678"}},
		{"short password", RegisterUserCommand{Email: "a@b.c", Username: "a", FirstName: "A", LastName: "B", Password: "123"}},
		{"missing last name", RegisterUserCommand{Email: "a@b.c", Username: "a", FirstName: "A", Password: "12345678"}},
		{"bad role", RegisterUserCommand{Email: "a@b.c", Username: "a", FirstName: "A", LastName: "B", Password: "12345678", Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	repo := domaintest.NewMemory()
	register(t, repo, "chef")

	_, err := NewRegisterUserHandler(repo).Handle(context.Background(), RegisterUserCommand{
		Email: "other@example.com", Username: "chef", FirstName: "A", LastName: "B", Password: "12345678",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLoginUser(t *testing.T) {
	auth.Configure("command-test", time.Hour)
	repo := domaintest.NewMemory()
	user := register(t, repo, "chef")
	h := NewLoginUserHandler(repo)
	ctx := context.Background()

	resp, err := h.Handle(ctx, LoginUserCommand{Email: "CHEF@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(resp.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = h.Handle(ctx, LoginUserCommand{Email: "chef@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginBlockedUser(t *testing.T) {
	repo := domaintest.NewMemory()
	register(t, repo, "chef")
	ctx := context.Background()

	_, err := NewToggleActiveHandler(repo).Handle(ctx, ToggleActiveCommand{Username: "chef", IsActive: false})
	require.NoError(t, err)

	_, err = NewLoginUserHandler(repo).Handle(ctx, LoginUserCommand{Email: "chef@example.com", Password: "long-enough-pw"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestSetPassword(t *testing.T) {
	repo := domaintest.NewMemory()
	user := register(t, repo, "chef")
	h := NewSetPasswordHandler(repo)
	ctx := context.Background()

	err := h.Handle(ctx, SetPasswordCommand{UserID: user.ID, CurrentPassword: "wrong", NewPassword: "brand-new-pw"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, h.Handle(ctx, SetPasswordCommand{UserID: user.ID, CurrentPassword: "long-enough-pw", NewPassword: "brand-new-pw"}))
	stored, _ := repo.FindByID(ctx, user.ID)
	assert.True(t, auth.CheckPassword(stored.Password, "brand-new-pw"))
}

func TestChangeRole(t *testing.T) {
	repo := domaintest.NewMemory()
	register(t, repo, "chef")
	h := NewChangeRoleHandler(repo)

	user, err := h.Handle(context.Background(), ChangeRoleCommand{Username: "chef", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = h.Handle(context.Background(), ChangeRoleCommand{Username: "ghost", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	repo := domaintest.NewMemory()
	reader := register(t, repo, "reader")
	author := register(t, repo, "author")
	repo.AddRecipe(domain.RecipeSummary{ID: 1, AuthorID: author.ID, Name: "soup"})
	repo.AddRecipe(domain.RecipeSummary{ID: 2, AuthorID: author.ID, Name: "pie"})

	toggle := NewFollowToggle(repo.FollowStore(), repo)
	subscribe := NewSubscribeHandler(toggle, repo, repo)
	unsubscribe := NewUnsubscribeHandler(toggle)
	ctx := context.Background()

	sub, err := subscribe.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID, RecipesLimit: 1})
	require.NoError(t, err)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(2), sub.RecipesCount)
	require.Len(t, sub.Recipes, 1)
	assert.Equal(t, "pie", sub.Recipes[0].Name)

	_, err = subscribe.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, unsubscribe.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID}))
	assert.ErrorIs(t, unsubscribe.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID}), apperror.ErrValidation)
}

func TestSubscribeToSelfOrMissingAuthor(t *testing.T) {
	repo := domaintest.NewMemory()
	reader := register(t, repo, "reader")
	subscribe := NewSubscribeHandler(NewFollowToggle(repo.FollowStore(), repo), repo, repo)
	ctx := context.Background()

	_, err := subscribe.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: reader.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = subscribe.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: 999})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLogoutRevokesToken(t *testing.T) {
	revoked := map[string]time.Duration{}
	h := NewLogoutUserHandler(recordingDenylist(revoked))

	require.NoError(t, h.Handle(context.Background(), LogoutUserCommand{TokenID: "jti-1", ExpiresIn: time.Minute}))
	assert.Equal(t, time.Minute, revoked["jti-1"])

	assert.ErrorIs(t, h.Handle(context.Background(), LogoutUserCommand{}), apperror.ErrUnauthorized)
}

type recordingDenylist map[string]time.Duration

func (d recordingDenylist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	d[id] = ttl
	return nil
}

func (d recordingDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := d[id]
	return ok, nil
}
