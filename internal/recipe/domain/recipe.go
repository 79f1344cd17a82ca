package domain

import (
	"time"

	userdomain "github.com/tair/foodgram/internal/user/domain"
)

// Recipe is a dish published by an author
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      *userdomain.User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"size:200;not null"`
	Image       string             `gorm:"not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []IngredientVolume `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name
func (Recipe) TableName() string {
	return "recipes"
}

// IngredientVolume is the amount of one ingredient in one recipe
type IngredientVolume struct {
	ID           uint        `gorm:"primaryKey"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_volume_ingredient_recipe"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_volume_ingredient_recipe"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int         `gorm:"not null"`
}

// TableName specifies the table name
func (IngredientVolume) TableName() string {
	return "ingredient_volumes"
}

// FavoriteRecipe marks a recipe as a favorite of a user
type FavoriteRecipe struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName specifies the table name
func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

// ShoppingCartItem queues a recipe for the user's shopping list
type ShoppingCartItem struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName specifies the table name
func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

// Models lists every table of the recipe context in migration order
func Models() []interface{} {
	return []interface{}{
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&IngredientVolume{},
		&FavoriteRecipe{},
		&ShoppingCartItem{},
	}
}
