package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/apperror"
)

// ChangeRoleCommand represents the command to change a user's role
type ChangeRoleCommand struct {
	Username string
	Role     string
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.Role != domain.RoleUser && cmd.Role != domain.RoleAdmin {
		return nil, apperror.Validation("invalid role %q", cmd.Role)
	}

	user, err := h.repo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}

	user.Role = cmd.Role
	user.UpdatedAt = time.Now()
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return user, nil
}
