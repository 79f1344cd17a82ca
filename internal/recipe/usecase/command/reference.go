package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/logger"
)

// CreateTagCommand adds a tag
type CreateTagCommand struct {
	Name  string
	Color string
	Slug  string
}

// CreateTagHandler handles tag creation
type CreateTagHandler struct {
	repo domain.TagRepository
}

// NewCreateTagHandler creates a new create tag handler
func NewCreateTagHandler(repo domain.TagRepository) *CreateTagHandler {
	return &CreateTagHandler{repo: repo}
}

// Handle executes the create tag command
func (h *CreateTagHandler) Handle(ctx context.Context, cmd CreateTagCommand) (*domain.Tag, error) {
	tag := &domain.Tag{Name: cmd.Name, Color: cmd.Color, Slug: cmd.Slug}
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	logger.Info(ctx).Uint("tag_id", tag.ID).Str("slug", tag.Slug).Msg("Tag created")
	return tag, nil
}

// CreateIngredientCommand adds an ingredient
type CreateIngredientCommand struct {
	Name            string
	MeasurementUnit string
}

// CreateIngredientHandler handles ingredient creation
type CreateIngredientHandler struct {
	repo domain.IngredientRepository
}

// NewCreateIngredientHandler creates a new create ingredient handler
func NewCreateIngredientHandler(repo domain.IngredientRepository) *CreateIngredientHandler {
	return &CreateIngredientHandler{repo: repo}
}

// Handle executes the create ingredient command
func (h *CreateIngredientHandler) Handle(ctx context.Context, cmd CreateIngredientCommand) (*domain.Ingredient, error) {
	ingredient := &domain.Ingredient{Name: cmd.Name, MeasurementUnit: cmd.MeasurementUnit}
	if err := ingredient.Validate(); err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, ingredient); err != nil {
		return nil, err
	}
	logger.Info(ctx).Uint("ingredient_id", ingredient.ID).Str("name", ingredient.Name).Msg("Ingredient created")
	return ingredient, nil
}

// LoadResult counts the outcome of a fixture import
type LoadResult struct {
	Inserted int
	Skipped  int
}

// LoadIngredientsHandler imports ingredient fixtures, skipping existing (name, unit) pairs
type LoadIngredientsHandler struct {
	repo domain.IngredientRepository
}

// NewLoadIngredientsHandler creates a new load ingredients handler
func NewLoadIngredientsHandler(repo domain.IngredientRepository) *LoadIngredientsHandler {
	return &LoadIngredientsHandler{repo: repo}
}

// Handle upserts every ingredient; invalid entries fail the whole import before any write
func (h *LoadIngredientsHandler) Handle(ctx context.Context, ingredients []domain.Ingredient) (LoadResult, error) {
	for i := range ingredients {
		if err := ingredients[i].Validate(); err != nil {
			return LoadResult{}, err
		}
	}
	var res LoadResult
	for i := range ingredients {
		ingredients[i].ID = 0
		inserted, err := h.repo.Upsert(ctx, &ingredients[i])
		if err != nil {
			return res, err
		}
		if inserted {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// LoadTagsHandler imports tag fixtures, skipping existing ones
type LoadTagsHandler struct {
	repo domain.TagRepository
}

// NewLoadTagsHandler creates a new load tags handler
func NewLoadTagsHandler(repo domain.TagRepository) *LoadTagsHandler {
	return &LoadTagsHandler{repo: repo}
}

// Handle upserts every tag
func (h *LoadTagsHandler) Handle(ctx context.Context, tags []domain.Tag) (LoadResult, error) {
	for i := range tags {
		if err := tags[i].Validate(); err != nil {
			return LoadResult{}, err
		}
	}
	var res LoadResult
	for i := range tags {
		tags[i].ID = 0
		inserted, err := h.repo.Upsert(ctx, &tags[i])
		if err != nil {
			return res, err
		}
		if inserted {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}
