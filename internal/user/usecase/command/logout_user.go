package command

import (
	"context"
	"time"

	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/auth"
)

// LogoutUserCommand revokes the token used for the request
type LogoutUserCommand struct {
	TokenID   string
	ExpiresIn time.Duration
}

// LogoutUserHandler handles logout
type LogoutUserHandler struct {
	denylist auth.Denylist
}

// NewLogoutUserHandler creates a new logout handler
func NewLogoutUserHandler(denylist auth.Denylist) *LogoutUserHandler {
	return &LogoutUserHandler{denylist: denylist}
}

// Handle executes the logout command
func (h *LogoutUserHandler) Handle(ctx context.Context, cmd LogoutUserCommand) error {
	if cmd.TokenID == "" {
		return apperror.Unauthorized("token has no id")
	}
	return h.denylist.Revoke(ctx, cmd.TokenID, cmd.ExpiresIn)
}
