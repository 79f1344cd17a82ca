package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/shoppinglist"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/database"
)

// GormRecipeRepository implements RecipeRepository interface using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GORM recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create inserts the recipe, its tag links and its ingredient volumes
func (r *GormRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return writeLinks(tx, recipe)
	})
	if err != nil {
		return classify(err, "failed to create recipe")
	}
	return nil
}

// Update saves the recipe fields and replaces its tags and ingredient volumes
func (r *GormRecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("recipe not found")
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.IngredientVolume{}).Error; err != nil {
			return err
		}
		return writeLinks(tx, recipe)
	})
	if err != nil {
		return classify(err, "failed to update recipe")
	}
	return nil
}

func writeLinks(tx *gorm.DB, recipe *domain.Recipe) error {
	if len(recipe.Tags) > 0 {
		links := make([]map[string]interface{}, 0, len(recipe.Tags))
		for _, tag := range recipe.Tags {
			links = append(links, map[string]interface{}{"recipe_id": recipe.ID, "tag_id": tag.ID})
		}
		if err := tx.Table("recipe_tags").Create(links).Error; err != nil {
			return err
		}
	}
	if len(recipe.Ingredients) > 0 {
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
			recipe.Ingredients[i].RecipeID = recipe.ID
		}
		if err := tx.Omit("Ingredient").Create(&recipe.Ingredients).Error; err != nil {
			return err
		}
	}
	return nil
}

func classify(err error, msg string) error {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return err
	case database.IsUniqueViolation(err):
		return apperror.Wrap(apperror.ErrConflict, err, "ingredients and tags must be unique within a recipe")
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// Delete removes the recipe; links cascade
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Recipe{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("recipe not found")
	}
	return nil
}

func (r *GormRecipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_volumes.id ASC") }).
		Preload("Ingredients.Ingredient")
}

// FindByID retrieves a recipe with its associations
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.preloaded(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return &recipe, nil
}

// Exists reports whether a recipe with id exists
func (r *GormRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe: %w", err)
	}
	return count > 0, nil
}

func (r *GormRecipeRepository) filtered(ctx context.Context, f domain.RecipeFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Recipe{})
	if len(f.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if f.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy != 0 {
		sub := r.db.Model(&domain.FavoriteRecipe{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if f.InCartOf != 0 {
		sub := r.db.Model(&domain.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", f.InCartOf)
		query = query.Where("recipes.id IN (?)", sub)
	}
	return query
}

// List retrieves recipes newest first
func (r *GormRecipeRepository) List(ctx context.Context, f domain.RecipeFilter, limit, offset int) ([]domain.Recipe, int64, error) {
	var count int64
	if err := r.filtered(ctx, f).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count == 0 {
		return []domain.Recipe{}, 0, nil
	}

	var ids []uint
	query := r.filtered(ctx, f).Order("recipes.created_at DESC, recipes.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Pluck("recipes.id", &ids).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Recipe{}, count, nil
	}

	var recipes []domain.Recipe
	err := r.preloaded(ctx).
		Where("recipes.id IN ?", ids).
		Order("recipes.created_at DESC, recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load recipes: %w", err)
	}
	return recipes, count, nil
}

func (r *GormRecipeRepository) among(ctx context.Context, model interface{}, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// FavoritedAmong returns which of recipeIDs the user has favorited
func (r *GormRecipeRepository) FavoritedAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	out, err := r.among(ctx, &domain.FavoriteRecipe{}, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorites: %w", err)
	}
	return out, nil
}

// InCartAmong returns which of recipeIDs are in the user's cart
func (r *GormRecipeRepository) InCartAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	out, err := r.among(ctx, &domain.ShoppingCartItem{}, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check shopping cart: %w", err)
	}
	return out, nil
}

// CartItems joins the cart to ingredient volumes in one query
func (r *GormRecipeRepository) CartItems(ctx context.Context, userID uint) ([]shoppinglist.Item, error) {
	var items []shoppinglist.Item
	err := r.db.WithContext(ctx).
		Table("shopping_cart_items AS c").
		Select("i.name AS name, i.measurement_unit AS unit, v.amount AS amount").
		Joins("JOIN ingredient_volumes AS v ON v.recipe_id = c.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = v.ingredient_id").
		Where("c.user_id = ?", userID).
		Order("c.id ASC, v.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	return items, nil
}

// CartUsers returns the users holding recipeID in their cart
func (r *GormRecipeRepository) CartUsers(ctx context.Context, recipeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.ShoppingCartItem{}).
		Where("recipe_id = ?", recipeID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart owners: %w", err)
	}
	return ids, nil
}

// AutoMigrate creates the recipe context tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
