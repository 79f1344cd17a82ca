package domain

import (
	"context"

	"github.com/tair/foodgram/internal/shoppinglist"
)

// RecipeFilter narrows a recipe listing. Zero values disable a filter.
type RecipeFilter struct {
	TagSlugs []string
	AuthorID uint
	// FavoritedBy and InCartOf restrict to recipes in that user's favorites or cart
	FavoritedBy uint
	InCartOf    uint
}

// RecipeRepository defines the interface for recipe data access
type RecipeRepository interface {
	// Create stores the recipe with its tags and ingredient volumes in one transaction
	Create(ctx context.Context, recipe *Recipe) error
	// Update replaces fields, tags and ingredient volumes in one transaction
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id uint) error
	// FindByID loads a recipe with author, tags and ingredients
	FindByID(ctx context.Context, id uint) (*Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// List returns one page of recipes, newest first, and the total matching count
	List(ctx context.Context, filter RecipeFilter, limit, offset int) ([]Recipe, int64, error)
	FavoritedAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	InCartAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	// CartItems returns the ingredient lines of every recipe in the user's cart,
	// ordered by cart entry then ingredient volume
	CartItems(ctx context.Context, userID uint) ([]shoppinglist.Item, error)
	// CartUsers returns the users holding the recipe in their cart
	CartUsers(ctx context.Context, recipeID uint) ([]uint, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	// Upsert inserts the tag unless one with the same slug exists and reports whether it was inserted
	Upsert(ctx context.Context, tag *Tag) (bool, error)
	FindAll(ctx context.Context) ([]Tag, error)
	FindByID(ctx context.Context, id uint) (*Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Tag, error)
}

// IngredientRepository defines the interface for ingredient data access
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *Ingredient) error
	// Upsert inserts the ingredient unless (name, unit) exists and reports whether it was inserted
	Upsert(ctx context.Context, ingredient *Ingredient) (bool, error)
	// Search returns ingredients whose name starts with prefix, case-insensitively
	Search(ctx context.Context, prefix string) ([]Ingredient, error)
	FindByID(ctx context.Context, id uint) (*Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Ingredient, error)
}
