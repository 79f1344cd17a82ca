//go:build wireinject
// +build wireinject

package recipe

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/recipe/cache"
	"github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/shoppinglist"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/httpx"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	shoppingCache cache.ShoppingListCache,
	events kafka.EventPublisher,
	authn *httpx.Authenticator,
	reg prometheus.Registerer,
	limits command.Limits,
	policy shoppinglist.MergePolicy,
	opts http.Options,
) (*http.RecipeHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewRecipeHandler,
	)
	return nil, nil
}

// InitializeAdminCommands initializes the fixture loaders
func InitializeAdminCommands(db *gorm.DB) (*AdminCommands, error) {
	wire.Build(
		ProvideTagRepository,
		ProvideIngredientRepository,
		command.NewLoadIngredientsHandler,
		command.NewLoadTagsHandler,
		wire.Struct(new(AdminCommands), "*"),
	)
	return nil, nil
}
