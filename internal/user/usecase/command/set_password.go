package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/auth"
)

// SetPasswordCommand changes the password of the current user
type SetPasswordCommand struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// SetPasswordHandler handles password changes
type SetPasswordHandler struct {
	repo domain.UserRepository
}

// NewSetPasswordHandler creates a new set password handler
func NewSetPasswordHandler(repo domain.UserRepository) *SetPasswordHandler {
	return &SetPasswordHandler{repo: repo}
}

// Handle executes the set password command
func (h *SetPasswordHandler) Handle(ctx context.Context, cmd SetPasswordCommand) error {
	if len(cmd.NewPassword) < domain.MinPasswordLength {
		return apperror.Validation("new_password must be at least %d characters", domain.MinPasswordLength)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, cmd.CurrentPassword) {
		return apperror.Validation("current_password is incorrect")
	}

	hashed, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
