package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/user/domain"
)

// GormSubscriptionRepository reads follows and the recipes of followed authors
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new subscription repository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindFollowing lists followed authors in subscription order
func (r *GormSubscriptionRepository) FindFollowing(ctx context.Context, userID uint, limit, offset int) ([]domain.User, error) {
	var users []domain.User
	query := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return users, nil
}

// CountFollowing returns how many authors userID follows
func (r *GormSubscriptionRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Follow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

// FollowingAmong returns which of authorIDs userID follows
func (r *GormSubscriptionRepository) FollowingAmong(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

const recipesPerAuthorSQL = `SELECT id, author_id, name, image, cooking_time FROM (
	SELECT id, author_id, name, image, cooking_time,
		ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY id DESC) AS rn
	FROM recipes WHERE author_id IN ?
) ranked WHERE rn <= ? ORDER BY author_id, id DESC`

// RecipesByAuthors returns up to limit newest recipes for each author
func (r *GormSubscriptionRepository) RecipesByAuthors(ctx context.Context, authorIDs []uint, limit int) (map[uint][]domain.RecipeSummary, error) {
	out := make(map[uint][]domain.RecipeSummary)
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []domain.RecipeSummary
	var err error
	if limit > 0 {
		err = r.db.WithContext(ctx).Raw(recipesPerAuthorSQL, authorIDs, limit).Scan(&rows).Error
	} else {
		err = r.db.WithContext(ctx).Table("recipes").
			Select("id, author_id, name, image, cooking_time").
			Where("author_id IN ?", authorIDs).
			Order("author_id, id DESC").
			Scan(&rows).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load author recipes: %w", err)
	}

	for _, row := range rows {
		out[row.AuthorID] = append(out[row.AuthorID], row)
	}
	return out, nil
}

// CountRecipesByAuthors returns the recipe count of each author
func (r *GormSubscriptionRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64)
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Table("recipes").
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}
