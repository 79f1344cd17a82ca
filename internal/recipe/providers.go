package recipe

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/membership"
	"github.com/tair/foodgram/internal/recipe/cache"
	"github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/internal/user"
	"github.com/tair/foodgram/kafka"
)

// ProvideRecipeRepository provides the traced recipe repository
func ProvideRecipeRepository(db *gorm.DB) domain.RecipeRepository {
	return repository.NewRecipeRepositoryWithTracing(repository.NewGormRecipeRepository(db))
}

// ProvideTagRepository provides the traced tag repository
func ProvideTagRepository(db *gorm.DB) domain.TagRepository {
	return repository.NewTagRepositoryWithTracing(repository.NewGormTagRepository(db))
}

// ProvideIngredientRepository provides the traced ingredient repository
func ProvideIngredientRepository(db *gorm.DB) domain.IngredientRepository {
	return repository.NewIngredientRepositoryWithTracing(repository.NewGormIngredientRepository(db))
}

// ProvideFavoriteToggle provides the favorites toggle over favorite_recipes
func ProvideFavoriteToggle(db *gorm.DB, recipes domain.RecipeRepository) command.FavoriteToggle {
	store := membership.NewGormStore(db, "user_id", "recipe_id", func(userID, recipeID uint) domain.FavoriteRecipe {
		return domain.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	})
	return command.NewFavoriteToggle(store, recipes)
}

// ProvideCartToggle provides the cart toggle over shopping_cart_items
func ProvideCartToggle(db *gorm.DB, recipes domain.RecipeRepository) command.CartToggle {
	store := membership.NewGormStore(db, "user_id", "recipe_id", func(userID, recipeID uint) domain.ShoppingCartItem {
		return domain.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	})
	return command.NewCartToggle(store, recipes)
}

// ProvideNotifier provides the post-commit notifier
func ProvideNotifier(events kafka.EventPublisher, c cache.ShoppingListCache) *command.Notifier {
	return command.NewNotifier(events, c)
}

// ProvideCommands groups the command handlers
func ProvideCommands(
	create *command.CreateRecipeHandler,
	update *command.UpdateRecipeHandler,
	remove *command.DeleteRecipeHandler,
	favorites *command.FavoriteHandler,
	cart *command.CartHandler,
	createTag *command.CreateTagHandler,
	createIngredient *command.CreateIngredientHandler,
) *http.Commands {
	return &http.Commands{
		CreateRecipe:     create,
		UpdateRecipe:     update,
		DeleteRecipe:     remove,
		Favorites:        favorites,
		Cart:             cart,
		CreateTag:        createTag,
		CreateIngredient: createIngredient,
	}
}

// ProvideQueries groups the query handlers
func ProvideQueries(
	getRecipe *query.GetRecipeHandler,
	listRecipes *query.ListRecipesHandler,
	listTags *query.ListTagsHandler,
	getTag *query.GetTagHandler,
	searchIngredients *query.SearchIngredientsHandler,
	getIngredient *query.GetIngredientHandler,
	shoppingList *query.DownloadShoppingListHandler,
) *http.Queries {
	return &http.Queries{
		GetRecipe:         getRecipe,
		ListRecipes:       listRecipes,
		ListTags:          listTags,
		GetTag:            getTag,
		SearchIngredients: searchIngredients,
		GetIngredient:     getIngredient,
		ShoppingList:      shoppingList,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideRecipeRepository,
	ProvideTagRepository,
	ProvideIngredientRepository,
	user.ProvideSubscriptionRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideFavoriteToggle,
	ProvideCartToggle,
	ProvideNotifier,
	command.NewCreateRecipeHandler,
	command.NewUpdateRecipeHandler,
	command.NewDeleteRecipeHandler,
	command.NewFavoriteHandler,
	command.NewCartHandler,
	command.NewCreateTagHandler,
	command.NewCreateIngredientHandler,
	ProvideCommands,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetRecipeHandler,
	query.NewListRecipesHandler,
	query.NewListTagsHandler,
	query.NewGetTagHandler,
	query.NewSearchIngredientsHandler,
	query.NewGetIngredientHandler,
	query.NewShoppingListMetrics,
	query.NewDownloadShoppingListHandler,
	ProvideQueries,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// AdminCommands are the fixture loaders used by the admin CLI
type AdminCommands struct {
	LoadIngredients *command.LoadIngredientsHandler
	LoadTags        *command.LoadTagsHandler
}
