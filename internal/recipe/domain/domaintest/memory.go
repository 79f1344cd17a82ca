// Package domaintest provides in-memory recipe repositories for tests.
package domaintest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tair/foodgram/internal/membership"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/shoppinglist"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/apperror"
)

type pair struct {
	id       uint
	userID   uint
	recipeID uint
}

// Memory implements RecipeRepository, TagRepository and IngredientRepository
type Memory struct {
	mu          sync.Mutex
	seq         uint
	recipes     map[uint]*domain.Recipe
	tags        []domain.Tag
	ingredients []domain.Ingredient
	authors     map[uint]*userdomain.User
	favorites   []pair
	cart        []pair
}

// NewMemory creates an empty store
func NewMemory() *Memory {
	return &Memory{
		recipes: make(map[uint]*domain.Recipe),
		authors: make(map[uint]*userdomain.User),
	}
}

func (m *Memory) next() uint {
	m.seq++
	return m.seq
}

// AddAuthor makes u available as recipe author
func (m *Memory) AddAuthor(u userdomain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authors[u.ID] = &u
}

// Tags returns the tag repository view of the store
func (m *Memory) Tags() domain.TagRepository { return tagRepo{m} }

// Ingredients returns the ingredient repository view of the store
func (m *Memory) Ingredients() domain.IngredientRepository { return ingredientRepo{m} }

// FavoriteStore returns the favorites as a membership store
func (m *Memory) FavoriteStore() membership.Store { return pairStore{m: m, rows: &m.favorites} }

// CartStore returns the cart as a membership store
func (m *Memory) CartStore() membership.Store { return pairStore{m: m, rows: &m.cart} }

func (m *Memory) Create(_ context.Context, r *domain.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.next()
	m.store(r)
	return nil
}

func (m *Memory) store(r *domain.Recipe) {
	for i := range r.Ingredients {
		r.Ingredients[i].ID = m.next()
		r.Ingredients[i].RecipeID = r.ID
	}
	cp := *r
	cp.Tags = append([]domain.Tag(nil), r.Tags...)
	cp.Ingredients = append([]domain.IngredientVolume(nil), r.Ingredients...)
	m.recipes[r.ID] = &cp
}

func (m *Memory) Update(_ context.Context, r *domain.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[r.ID]; !ok {
		return apperror.NotFound("recipe not found")
	}
	m.store(r)
	return nil
}

func (m *Memory) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return apperror.NotFound("recipe not found")
	}
	delete(m.recipes, id)
	m.favorites = without(m.favorites, id)
	m.cart = without(m.cart, id)
	return nil
}

func without(rows []pair, recipeID uint) []pair {
	out := rows[:0]
	for _, p := range rows {
		if p.recipeID != recipeID {
			out = append(out, p)
		}
	}
	return out
}

func (m *Memory) load(r *domain.Recipe) domain.Recipe {
	cp := *r
	cp.Tags = append([]domain.Tag(nil), r.Tags...)
	cp.Ingredients = make([]domain.IngredientVolume, len(r.Ingredients))
	for i, v := range r.Ingredients {
		for j := range m.ingredients {
			if m.ingredients[j].ID == v.IngredientID {
				ing := m.ingredients[j]
				v.Ingredient = &ing
			}
		}
		cp.Ingredients[i] = v
	}
	if a, ok := m.authors[r.AuthorID]; ok {
		author := *a
		cp.Author = &author
	}
	return cp
}

func (m *Memory) FindByID(_ context.Context, id uint) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, apperror.NotFound("recipe not found")
	}
	out := m.load(r)
	return &out, nil
}

func (m *Memory) Exists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.recipes[id]
	return ok, nil
}

func has(rows []pair, userID, recipeID uint) bool {
	for _, p := range rows {
		if p.userID == userID && p.recipeID == recipeID {
			return true
		}
	}
	return false
}

func (m *Memory) matches(r *domain.Recipe, f domain.RecipeFilter) bool {
	if f.AuthorID != 0 && r.AuthorID != f.AuthorID {
		return false
	}
	if f.FavoritedBy != 0 && !has(m.favorites, f.FavoritedBy, r.ID) {
		return false
	}
	if f.InCartOf != 0 && !has(m.cart, f.InCartOf, r.ID) {
		return false
	}
	if len(f.TagSlugs) > 0 {
		for _, t := range r.Tags {
			for _, slug := range f.TagSlugs {
				if t.Slug == slug {
					return true
				}
			}
		}
		return false
	}
	return true
}

func (m *Memory) List(_ context.Context, f domain.RecipeFilter, limit, offset int) ([]domain.Recipe, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.Recipe
	for _, r := range m.recipes {
		if m.matches(r, f) {
			matched = append(matched, m.load(r))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []domain.Recipe{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func among(rows []pair, userID uint, ids []uint) map[uint]bool {
	out := make(map[uint]bool)
	for _, id := range ids {
		if has(rows, userID, id) {
			out[id] = true
		}
	}
	return out
}

func (m *Memory) FavoritedAmong(_ context.Context, userID uint, ids []uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return among(m.favorites, userID, ids), nil
}

func (m *Memory) InCartAmong(_ context.Context, userID uint, ids []uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return among(m.cart, userID, ids), nil
}

// CartItems walks cart entries in insertion order, then volumes in id order
func (m *Memory) CartItems(_ context.Context, userID uint) ([]shoppinglist.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []shoppinglist.Item
	for _, p := range m.cart {
		if p.userID != userID {
			continue
		}
		r := m.load(m.recipes[p.recipeID])
		sort.Slice(r.Ingredients, func(i, j int) bool { return r.Ingredients[i].ID < r.Ingredients[j].ID })
		for _, v := range r.Ingredients {
			items = append(items, shoppinglist.Item{Name: v.Ingredient.Name, Unit: v.Ingredient.MeasurementUnit, Amount: v.Amount})
		}
	}
	return items, nil
}

func (m *Memory) CartUsers(_ context.Context, recipeID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for _, p := range m.cart {
		if p.recipeID == recipeID {
			ids = append(ids, p.userID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type pairStore struct {
	m    *Memory
	rows *[]pair
}

func (s pairStore) Exists(_ context.Context, userID, recipeID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return has(*s.rows, userID, recipeID), nil
}

func (s pairStore) Add(_ context.Context, userID, recipeID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if has(*s.rows, userID, recipeID) {
		return apperror.Conflict("duplicate")
	}
	*s.rows = append(*s.rows, pair{id: s.m.next(), userID: userID, recipeID: recipeID})
	return nil
}

func (s pairStore) Remove(_ context.Context, userID, recipeID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, p := range *s.rows {
		if p.userID == userID && p.recipeID == recipeID {
			*s.rows = append((*s.rows)[:i], (*s.rows)[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type tagRepo struct{ m *Memory }

func (r tagRepo) Create(_ context.Context, tag *domain.Tag) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.tags {
		if t.Slug == tag.Slug || t.Name == tag.Name || t.Color == tag.Color {
			return apperror.Conflict("a tag with this name, color or slug already exists")
		}
	}
	tag.ID = r.m.next()
	r.m.tags = append(r.m.tags, *tag)
	return nil
}

func (r tagRepo) Upsert(ctx context.Context, tag *domain.Tag) (bool, error) {
	if err := r.Create(ctx, tag); err != nil {
		return false, nil
	}
	return true, nil
}

func (r tagRepo) FindAll(context.Context) ([]domain.Tag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]domain.Tag(nil), r.m.tags...), nil
}

func (r tagRepo) FindByID(_ context.Context, id uint) (*domain.Tag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.tags {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, apperror.NotFound("tag not found")
}

func (r tagRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Tag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Tag
	for _, t := range r.m.tags {
		for _, id := range ids {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type ingredientRepo struct{ m *Memory }

func (r ingredientRepo) Create(_ context.Context, ing *domain.Ingredient) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, i := range r.m.ingredients {
		if i.Name == ing.Name && i.MeasurementUnit == ing.MeasurementUnit {
			return apperror.Conflict("an ingredient with this name and unit already exists")
		}
	}
	ing.ID = r.m.next()
	r.m.ingredients = append(r.m.ingredients, *ing)
	return nil
}

func (r ingredientRepo) Upsert(ctx context.Context, ing *domain.Ingredient) (bool, error) {
	if err := r.Create(ctx, ing); err != nil {
		return false, nil
	}
	return true, nil
}

func (r ingredientRepo) Search(_ context.Context, prefix string) ([]domain.Ingredient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Ingredient
	for _, i := range r.m.ingredients {
		if strings.HasPrefix(strings.ToLower(i.Name), strings.ToLower(prefix)) {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (r ingredientRepo) FindByID(_ context.Context, id uint) (*domain.Ingredient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, i := range r.m.ingredients {
		if i.ID == id {
			out := i
			return &out, nil
		}
	}
	return nil, apperror.NotFound("ingredient not found")
}

func (r ingredientRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Ingredient, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Ingredient
	for _, i := range r.m.ingredients {
		for _, id := range ids {
			if i.ID == id {
				out = append(out, i)
			}
		}
	}
	return out, nil
}
