package command

import (
	"context"
	"strings"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/apperror"
)

// MaxSmallInt bounds amounts and cooking times
const MaxSmallInt = 32767

// Limits are the configurable lower bounds of recipe values
type Limits struct {
	MinCookingTime int
	MinAmount      int
}

// DefaultLimits allow any positive value
func DefaultLimits() Limits {
	return Limits{MinCookingTime: 1, MinAmount: 1}
}

// IngredientInput references an ingredient with its amount
type IngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the writable part of a recipe
type RecipeInput struct {
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Text        string            `json:"text"`
	CookingTime int               `json:"cooking_time"`
	Tags        []uint            `json:"tags"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// validate checks everything that needs no storage access
func (in *RecipeInput) validate(limits Limits) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Text = strings.TrimSpace(in.Text)
	in.Image = strings.TrimSpace(in.Image)

	switch {
	case in.Name == "" || len(in.Name) > 200:
		return apperror.Validation("name is required and must be at most 200 characters")
	case in.Text == "":
		return apperror.Validation("text is required")
	case in.Image == "":
		return apperror.Validation("image is required")
	case in.CookingTime < limits.MinCookingTime || in.CookingTime > MaxSmallInt:
		return apperror.Validation("cooking_time must be between %d and %d", limits.MinCookingTime, MaxSmallInt)
	case len(in.Ingredients) == 0:
		return apperror.Validation("ingredients are required")
	case len(in.Tags) == 0:
		return apperror.Validation("tags are required")
	}

	seen := make(map[uint]bool, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if seen[ing.ID] {
			return apperror.Validation("ingredient %d is listed more than once", ing.ID)
		}
		seen[ing.ID] = true
		if ing.Amount < limits.MinAmount || ing.Amount > MaxSmallInt {
			return apperror.Validation("amount of ingredient %d must be between %d and %d", ing.ID, limits.MinAmount, MaxSmallInt)
		}
	}

	tags := make(map[uint]bool, len(in.Tags))
	for _, id := range in.Tags {
		if tags[id] {
			return apperror.Validation("tag %d is listed more than once", id)
		}
		tags[id] = true
	}
	return nil
}

// resolver turns input ids into stored tags and ingredients
type resolver struct {
	tags        domain.TagRepository
	ingredients domain.IngredientRepository
	limits      Limits
}

// apply validates in and writes it onto recipe
func (r resolver) apply(ctx context.Context, in RecipeInput, recipe *domain.Recipe) error {
	if err := in.validate(r.limits); err != nil {
		return err
	}

	ids := make([]uint, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		ids[i] = ing.ID
	}
	found, err := r.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uint]*domain.Ingredient, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	volumes := make([]domain.IngredientVolume, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		stored, ok := byID[ing.ID]
		if !ok {
			return apperror.NotFound("ingredient %d not found", ing.ID)
		}
		volumes[i] = domain.IngredientVolume{IngredientID: ing.ID, Ingredient: stored, Amount: ing.Amount}
	}

	tags, err := r.tags.FindByIDs(ctx, in.Tags)
	if err != nil {
		return err
	}
	if len(tags) != len(in.Tags) {
		known := make(map[uint]bool, len(tags))
		for _, t := range tags {
			known[t.ID] = true
		}
		for _, id := range in.Tags {
			if !known[id] {
				return apperror.Validation("tag %d does not exist", id)
			}
		}
	}

	recipe.Name = in.Name
	recipe.Image = in.Image
	recipe.Text = in.Text
	recipe.CookingTime = in.CookingTime
	recipe.Tags = tags
	recipe.Ingredients = volumes
	return nil
}
