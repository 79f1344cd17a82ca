//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/user/delivery/http"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/internal/user/usecase/query"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/httpx"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, authn *httpx.Authenticator, denylist auth.Denylist, reg prometheus.Registerer, opts http.Options) (*http.UserHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewUserHandler,
	)
	return nil, nil
}

// InitializeAdminCommands initializes the admin CLI operations
func InitializeAdminCommands(db *gorm.DB) (*AdminCommands, error) {
	wire.Build(
		ProvideUserRepository,
		command.NewRegisterUserHandler,
		command.NewChangeRoleHandler,
		command.NewToggleActiveHandler,
		query.NewGetStatsHandler,
		wire.Struct(new(AdminCommands), "*"),
	)
	return nil, nil
}
