package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

// AccountLookup reports the current role and status of a token's user
type AccountLookup interface {
	Account(ctx context.Context, userID uint) (role string, active bool, err error)
}

// Authenticator validates bearer tokens and rejects revoked ones
type Authenticator struct {
	denylist auth.Denylist
	accounts AccountLookup
}

// NewAuthenticator creates an authenticator. A nil denylist disables revocation checks.
func NewAuthenticator(denylist auth.Denylist) *Authenticator {
	if denylist == nil {
		denylist = auth.NopDenylist{}
	}
	return &Authenticator{denylist: denylist}
}

// WithAccounts makes every request re-read the user's role and active flag,
// so role changes and deactivation apply to tokens already issued.
func (a *Authenticator) WithAccounts(accounts AccountLookup) *Authenticator {
	a.accounts = accounts
	return a
}

// Denylist returns the configured revocation store
func (a *Authenticator) Denylist() auth.Denylist {
	return a.denylist
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (a *Authenticator) claims(r *http.Request, token string) (*auth.Claims, bool) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	revoked, err := a.denylist.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Token denylist unavailable")
	} else if revoked {
		return nil, false
	}
	if a.accounts == nil {
		return claims, true
	}

	role, active, err := a.accounts.Account(r.Context(), claims.UserID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return nil, false
	case err != nil:
		logger.Warn(r.Context()).Err(err).Uint("user_id", claims.UserID).Msg("Account lookup failed")
		return claims, true
	case !active:
		return nil, false
	}
	current := *claims
	current.Role = role
	return &current, true
}

// Required rejects requests without a valid token
func (a *Authenticator) Required(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			RespondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		claims, ok := a.claims(r, token)
		if !ok {
			RespondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// Optional attaches claims when a valid token is present
func (a *Authenticator) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			if claims, ok := a.claims(r, token); ok {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	}
}

// Admin requires a valid token with the admin role
func (a *Authenticator) Admin(next http.HandlerFunc) http.HandlerFunc {
	return a.Required(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if claims.Role != "admin" {
			RespondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims stores token claims in ctx
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user id, or 0 for anonymous requests
func UserIDFromContext(ctx context.Context) uint {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return 0
}
