package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/domain/domaintest"
	"github.com/tair/foodgram/pkg/apperror"
)

func TestAccountsReadsCurrentState(t *testing.T) {
	ctx := context.Background()
	repo := domaintest.NewMemory()
	u := &domain.User{Email: "a@b.c", Username: "cook", FirstName: "A", LastName: "B", Password: "x", Role: "admin", IsActive: true}
	require.NoError(t, repo.Create(ctx, u))

	accounts := NewAccounts(repo)
	role, active, err := accounts.Account(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
	assert.True(t, active)

	u.Role, u.IsActive = "user", false
	require.NoError(t, repo.Update(ctx, u))
	role, active, err = accounts.Account(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", role)
	assert.False(t, active)

	_, _, err = accounts.Account(ctx, u.ID+100)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
