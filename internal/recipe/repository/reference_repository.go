package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/apperror"
	"github.com/tair/foodgram/pkg/database"
)

// GormTagRepository implements TagRepository interface using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GORM tag repository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// Create inserts a tag
func (r *GormTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Wrap(apperror.ErrConflict, err, "a tag with this name, color or slug already exists")
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// Upsert inserts a tag unless it already exists
func (r *GormTagRepository) Upsert(ctx context.Context, tag *domain.Tag) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(tag)
	if res.Error != nil {
		return false, fmt.Errorf("failed to upsert tag: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindAll returns every tag ordered by id
func (r *GormTagRepository) FindAll(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	return tags, nil
}

// FindByID retrieves a tag by ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("tag not found")
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &tag, nil
}

// FindByIDs retrieves the tags with the given ids; missing ids are skipped
func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Tag, error) {
	var tags []domain.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	return tags, nil
}

// GormIngredientRepository implements IngredientRepository interface using GORM
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GORM ingredient repository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// Create inserts an ingredient
func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Wrap(apperror.ErrConflict, err, "an ingredient with this name and unit already exists")
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// Upsert inserts an ingredient unless (name, unit) exists
func (r *GormIngredientRepository) Upsert(ctx context.Context, ingredient *domain.Ingredient) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
		DoNothing: true,
	}).Create(ingredient)
	if res.Error != nil {
		return false, fmt.Errorf("failed to upsert ingredient: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Search returns ingredients by case-insensitive name prefix, ordered by name
func (r *GormIngredientRepository) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	query := r.db.WithContext(ctx).Order("name ASC, id ASC")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where("name ILIKE ?", escapeLike(prefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindByID retrieves an ingredient by ID
func (r *GormIngredientRepository) FindByID(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("failed to find ingredient: %w", err)
	}
	return &ingredient, nil
}

// FindByIDs retrieves the ingredients with the given ids; missing ids are skipped
func (r *GormIngredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to find ingredients: %w", err)
	}
	return ingredients, nil
}
