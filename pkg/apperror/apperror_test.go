package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("amount must be at least %d", 1), http.StatusBadRequest},
		{"not found", NotFound("recipe %d not found", 7), http.StatusNotFound},
		{"conflict", Conflict("already added"), http.StatusConflict},
		{"unauthorized", Unauthorized("invalid token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not the author"), http.StatusForbidden},
		{"wrapped by caller", fmt.Errorf("create recipe: %w", NotFound("ingredient not found")), http.StatusNotFound},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(ErrConflict, cause, "username already exists")

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "username already exists", PublicMessage(err))
}

func TestPublicMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: relation does not exist")))
}
