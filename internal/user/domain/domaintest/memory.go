// Package domaintest provides in-memory user repositories for tests.
package domaintest

import (
	"context"
	"sort"
	"sync"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/apperror"
)

// Memory implements UserRepository, SubscriptionRepository and membership.Store for follows
type Memory struct {
	mu      sync.Mutex
	nextID  uint
	users   map[uint]*domain.User
	follows []domain.Follow
	recipes []domain.RecipeSummary
}

// NewMemory creates an empty store
func NewMemory() *Memory {
	return &Memory{users: make(map[uint]*domain.User)}
}

// AddRecipe registers a recipe summary for an author
func (m *Memory) AddRecipe(r domain.RecipeSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes = append(m.recipes, r)
}

func (m *Memory) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return apperror.Conflict("a user with this email or username already exists")
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *Memory) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (m *Memory) FindByID(_ context.Context, id uint) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m *Memory) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *Memory) sorted() []domain.User {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (m *Memory) FindAll(_ context.Context, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return window(m.sorted(), limit, offset), nil
}

func (m *Memory) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *Memory) Exists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *Memory) CountByRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// FollowStore returns the follow relation as a membership store
func (m *Memory) FollowStore() *FollowStore {
	return &FollowStore{m: m}
}

// FollowStore adapts Memory follows to membership.Store
type FollowStore struct{ m *Memory }

func (s *FollowStore) Exists(_ context.Context, userID, authorID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, f := range s.m.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (s *FollowStore) Add(_ context.Context, userID, authorID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.follows = append(s.m.follows, domain.Follow{ID: uint(len(s.m.follows) + 1), UserID: userID, AuthorID: authorID})
	return nil
}

func (s *FollowStore) Remove(_ context.Context, userID, authorID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, f := range s.m.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			s.m.follows = append(s.m.follows[:i], s.m.follows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) FindFollowing(_ context.Context, userID uint, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, f := range m.follows {
		if f.UserID == userID {
			if u, ok := m.users[f.AuthorID]; ok {
				out = append(out, *u)
			}
		}
	}
	return window(out, limit, offset), nil
}

func (m *Memory) CountFollowing(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, f := range m.follows {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) FollowingAmong(_ context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint]bool)
	for _, f := range m.follows {
		if f.UserID != userID {
			continue
		}
		for _, id := range authorIDs {
			if id == f.AuthorID {
				out[id] = true
			}
		}
	}
	return out, nil
}

func (m *Memory) RecipesByAuthors(_ context.Context, authorIDs []uint, limit int) (map[uint][]domain.RecipeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint][]domain.RecipeSummary)
	for i := len(m.recipes) - 1; i >= 0; i-- {
		r := m.recipes[i]
		for _, id := range authorIDs {
			if r.AuthorID == id && (limit <= 0 || len(out[id]) < limit) {
				out[id] = append(out[id], r)
			}
		}
	}
	return out, nil
}

func (m *Memory) CountRecipesByAuthors(_ context.Context, authorIDs []uint) (map[uint]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint]int64)
	for _, r := range m.recipes {
		for _, id := range authorIDs {
			if r.AuthorID == id {
				out[id]++
			}
		}
	}
	return out, nil
}
