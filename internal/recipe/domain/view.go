package domain

import userdomain "github.com/tair/foodgram/internal/user/domain"

// IngredientAmount is one ingredient line of a recipe as shown to clients
type IngredientAmount struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is a recipe as seen by one viewer
type RecipeView struct {
	ID               uint               `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           userdomain.Profile `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// ShortRecipe is returned by favorite and cart additions
type ShortRecipe struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewShortRecipe builds the short form of r
func NewShortRecipe(r *Recipe) ShortRecipe {
	return ShortRecipe{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// ViewerFlags are the per-viewer booleans of a set of recipes
type ViewerFlags struct {
	Favorited map[uint]bool
	InCart    map[uint]bool
	Following map[uint]bool
}

// NewRecipeView combines a loaded recipe with the viewer's flags
func NewRecipeView(r *Recipe, flags ViewerFlags) RecipeView {
	view := RecipeView{
		ID:               r.ID,
		Tags:             r.Tags,
		Ingredients:      make([]IngredientAmount, 0, len(r.Ingredients)),
		IsFavorited:      flags.Favorited[r.ID],
		IsInShoppingCart: flags.InCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if view.Tags == nil {
		view.Tags = []Tag{}
	}
	if r.Author != nil {
		view.Author = userdomain.NewProfile(r.Author, flags.Following[r.AuthorID])
	} else {
		view.Author = userdomain.Profile{ID: r.AuthorID}
	}
	for _, v := range r.Ingredients {
		line := IngredientAmount{ID: v.IngredientID, Amount: v.Amount}
		if v.Ingredient != nil {
			line.Name = v.Ingredient.Name
			line.MeasurementUnit = v.Ingredient.MeasurementUnit
		}
		view.Ingredients = append(view.Ingredients, line)
	}
	return view
}
