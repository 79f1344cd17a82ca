// Package membership implements the add/remove toggle shared by favorites,
// the shopping cart and subscriptions.
//
// Add fails with a conflict when the pair already exists; Remove fails with a
// validation error when it does not. Both fail with not-found when the target
// does not exist.
package membership

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/database"
)

// Store persists (owner, target) pairs
type Store interface {
	Exists(ctx context.Context, ownerID, targetID uint) (bool, error)
	Add(ctx context.Context, ownerID, targetID uint) error
	// Remove deletes the pair and reports whether it existed
	Remove(ctx context.Context, ownerID, targetID uint) (bool, error)
}

// TargetExists reports whether the target entity exists
type TargetExists func(ctx context.Context, targetID uint) (bool, error)

// Guard may reject a pair before any storage access
type Guard func(ownerID, targetID uint) error

// Messages are the client-facing texts for each failure
type Messages struct {
	TargetNotFound string
	AlreadyMember  string
	NotMember      string
}

// Toggle is the membership operation for one relation
type Toggle struct {
	relation string
	store    Store
	exists   TargetExists
	guard    Guard
	messages Messages
}

// Option configures a Toggle
type Option func(*Toggle)

// WithGuard installs a pair validator
func WithGuard(g Guard) Option {
	return func(t *Toggle) { t.guard = g }
}

// WithMessages overrides the default error texts
func WithMessages(m Messages) Option {
	return func(t *Toggle) {
		if m.TargetNotFound != "" {
			t.messages.TargetNotFound = m.TargetNotFound
		}
		if m.AlreadyMember != "" {
			t.messages.AlreadyMember = m.AlreadyMember
		}
		if m.NotMember != "" {
			t.messages.NotMember = m.NotMember
		}
	}
}

// New creates a toggle for the named relation
func New(relation string, store Store, exists TargetExists, opts ...Option) *Toggle {
	t := &Toggle{
		relation: relation,
		store:    store,
		exists:   exists,
		messages: Messages{
			TargetNotFound: "target not found",
			AlreadyMember:  "already added to " + relation,
			NotMember:      "not in " + relation,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Relation returns the relation name
func (t *Toggle) Relation() string {
	return t.relation
}

func (t *Toggle) check(ctx context.Context, ownerID, targetID uint) error {
	if t.guard != nil {
		if err := t.guard(ownerID, targetID); err != nil {
			return err
		}
	}
	ok, err := t.exists(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to look up %s target: %w", t.relation, err)
	}
	if !ok {
		return apperror.NotFound("%s", t.messages.TargetNotFound)
	}
	return nil
}

// Add creates the pair or fails with a conflict if it exists
func (t *Toggle) Add(ctx context.Context, ownerID, targetID uint) error {
	if err := t.check(ctx, ownerID, targetID); err != nil {
		return err
	}

	member, err := t.store.Exists(ctx, ownerID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", t.relation, err)
	}
	if member {
		return apperror.Conflict("%s", t.messages.AlreadyMember)
	}

	if err := t.store.Add(ctx, ownerID, targetID); err != nil {
		// a concurrent request won the insert
		if database.IsUniqueViolation(err) {
			return apperror.Wrap(apperror.ErrConflict, err, t.messages.AlreadyMember)
		}
		return fmt.Errorf("failed to add %s: %w", t.relation, err)
	}
	return nil
}

// Remove deletes the pair or fails with a validation error if it is missing
func (t *Toggle) Remove(ctx context.Context, ownerID, targetID uint) error {
	if err := t.check(ctx, ownerID, targetID); err != nil {
		return err
	}

	removed, err := t.store.Remove(ctx, ownerID, targetID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", t.relation, err)
	}
	if !removed {
		return apperror.Validation("%s", t.messages.NotMember)
	}
	return nil
}
