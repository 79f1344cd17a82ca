package user

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
)

// Accounts resolves the live role and active flag behind a token
type Accounts struct {
	repo domain.UserRepository
}

// NewAccounts creates an account lookup over repo
func NewAccounts(repo domain.UserRepository) *Accounts {
	return &Accounts{repo: repo}
}

// Account implements httpx.AccountLookup
func (a *Accounts) Account(ctx context.Context, userID uint) (string, bool, error) {
	u, err := a.repo.FindByID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	return u.Role, u.IsActive, nil
}
