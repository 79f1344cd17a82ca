package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/foodgram/internal/user/domain"
)

// ToggleActiveCommand activates or blocks an account. Blocked users cannot log in.
type ToggleActiveCommand struct {
	Username string
	IsActive bool
}

// ToggleActiveHandler handles user activation toggle command
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*domain.User, error) {
	user, err := h.repo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}

	user.IsActive = cmd.IsActive
	user.UpdatedAt = time.Now()
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return user, nil
}
