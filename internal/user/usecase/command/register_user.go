package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/auth"
)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Role      string // Optional, defaults to "user"
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	user := &domain.User{
		Email:     cmd.Email,
		Username:  cmd.Username,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Role:      cmd.Role,
		IsActive:  true,
	}
	user.Normalize()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if len(cmd.Password) < domain.MinPasswordLength {
		return nil, apperror.Validation("password must be at least %d characters", domain.MinPasswordLength)
	}

	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Role != domain.RoleUser && user.Role != domain.RoleAdmin {
		return nil, apperror.Validation("invalid role %q", user.Role)
	}

	// Check if user already exists
	if existing, _ := h.repo.FindByUsername(ctx, user.Username); existing != nil {
		return nil, apperror.Conflict("username already exists")
	}
	if existing, _ := h.repo.FindByEmail(ctx, user.Email); existing != nil {
		return nil, apperror.Conflict("email already exists")
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if err := h.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}
