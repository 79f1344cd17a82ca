package domain

import (
	"context"
	"time"
)

// Follow is a subscription of User to Author
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_follow_user_author"`
	AuthorID  uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_follow_user_author;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Follow) TableName() string {
	return "follows"
}

// RecipeSummary is the short form of a recipe listed under its author
type RecipeSummary struct {
	ID          uint   `json:"id"`
	AuthorID    uint   `json:"-"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Subscription is one followed author with a preview of their recipes
type Subscription struct {
	Profile
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// SubscriptionRepository reads the follow graph
type SubscriptionRepository interface {
	// FindFollowing lists the authors userID follows, oldest subscription first
	FindFollowing(ctx context.Context, userID uint, limit, offset int) ([]User, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	// FollowingAmong returns which of authorIDs userID follows
	FollowingAmong(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	// RecipesByAuthors returns up to limit newest recipes per author. limit <= 0 means all.
	RecipesByAuthors(ctx context.Context, authorIDs []uint, limit int) (map[uint][]RecipeSummary, error)
	CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
}
