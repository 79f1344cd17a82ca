package query

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// ListTagsHandler lists every tag
type ListTagsHandler struct {
	repo domain.TagRepository
}

// NewListTagsHandler creates a new list tags handler
func NewListTagsHandler(repo domain.TagRepository) *ListTagsHandler {
	return &ListTagsHandler{repo: repo}
}

// Handle returns all tags ordered by id
func (h *ListTagsHandler) Handle(ctx context.Context) ([]domain.Tag, error) {
	tags, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

// GetTagHandler gets one tag
type GetTagHandler struct {
	repo domain.TagRepository
}

// NewGetTagHandler creates a new get tag handler
func NewGetTagHandler(repo domain.TagRepository) *GetTagHandler {
	return &GetTagHandler{repo: repo}
}

// Handle returns the tag with id
func (h *GetTagHandler) Handle(ctx context.Context, id uint) (*domain.Tag, error) {
	return h.repo.FindByID(ctx, id)
}

// SearchIngredientsQuery filters ingredients by name prefix
type SearchIngredientsQuery struct {
	Name string
}

// SearchIngredientsHandler handles ingredient search
type SearchIngredientsHandler struct {
	repo domain.IngredientRepository
}

// NewSearchIngredientsHandler creates a new search ingredients handler
func NewSearchIngredientsHandler(repo domain.IngredientRepository) *SearchIngredientsHandler {
	return &SearchIngredientsHandler{repo: repo}
}

// Handle returns ingredients whose name starts with q.Name
func (h *SearchIngredientsHandler) Handle(ctx context.Context, q SearchIngredientsQuery) ([]domain.Ingredient, error) {
	ingredients, err := h.repo.Search(ctx, q.Name)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	return ingredients, nil
}

// GetIngredientHandler gets one ingredient
type GetIngredientHandler struct {
	repo domain.IngredientRepository
}

// NewGetIngredientHandler creates a new get ingredient handler
func NewGetIngredientHandler(repo domain.IngredientRepository) *GetIngredientHandler {
	return &GetIngredientHandler{repo: repo}
}

// Handle returns the ingredient with id
func (h *GetIngredientHandler) Handle(ctx context.Context, id uint) (*domain.Ingredient, error) {
	return h.repo.FindByID(ctx, id)
}
