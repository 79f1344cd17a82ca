package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/membership"
	"github.com/tair/foodgram/internal/user/delivery/http"
	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/internal/user/usecase/query"
)

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewUserRepositoryWithTracing(repository.NewGormUserRepository(db))
}

// ProvideSubscriptionRepository provides the traced subscription repository
func ProvideSubscriptionRepository(db *gorm.DB) domain.SubscriptionRepository {
	return repository.NewSubscriptionRepositoryWithTracing(repository.NewGormSubscriptionRepository(db))
}

// ProvideFollowStore provides the follow relation store
func ProvideFollowStore(db *gorm.DB) membership.Store {
	return membership.NewGormStore(db, "user_id", "author_id", func(userID, authorID uint) domain.Follow {
		return domain.Follow{UserID: userID, AuthorID: authorID}
	})
}

// ProvideFollowToggle provides the follow membership toggle
func ProvideFollowToggle(store membership.Store, users domain.UserRepository) *membership.Toggle {
	return command.NewFollowToggle(store, users)
}

// ProvideCommands groups the command handlers
func ProvideCommands(
	register *command.RegisterUserHandler,
	login *command.LoginUserHandler,
	logout *command.LogoutUserHandler,
	setPassword *command.SetPasswordHandler,
	subscribe *command.SubscribeHandler,
	unsubscribe *command.UnsubscribeHandler,
) *http.Commands {
	return &http.Commands{
		Register:    register,
		Login:       login,
		Logout:      logout,
		SetPassword: setPassword,
		Subscribe:   subscribe,
		Unsubscribe: unsubscribe,
	}
}

// ProvideQueries groups the query handlers
func ProvideQueries(
	getUser *query.GetUserHandler,
	listUsers *query.ListUsersHandler,
	listSubscriptions *query.ListSubscriptionsHandler,
	stats *query.GetStatsHandler,
) *http.Queries {
	return &http.Queries{
		GetUser:           getUser,
		ListUsers:         listUsers,
		ListSubscriptions: listSubscriptions,
		Stats:             stats,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
	ProvideSubscriptionRepository,
	ProvideFollowStore,
)

var CommandHandlerSet = wire.NewSet(
	ProvideFollowToggle,
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
	command.NewLogoutUserHandler,
	command.NewSetPasswordHandler,
	command.NewSubscribeHandler,
	command.NewUnsubscribeHandler,
	ProvideCommands,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
	query.NewListUsersHandler,
	query.NewListSubscriptionsHandler,
	query.NewGetStatsHandler,
	ProvideQueries,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// AdminCommands are the account operations used by the admin CLI
type AdminCommands struct {
	Register     *command.RegisterUserHandler
	ChangeRole   *command.ChangeRoleHandler
	ToggleActive *command.ToggleActiveHandler
	Stats        *query.GetStatsHandler
}

