package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/auth"
)

// LoginUserCommand represents the command to obtain a token
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	user, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account is deactivated")
	}
	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{AuthToken: token}, nil
}
