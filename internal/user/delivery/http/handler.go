package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/internal/user/usecase/query"
	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/pagination"
)

// Options tune list endpoints
type Options struct {
	DefaultPageLimit int
}

// Commands groups the user command handlers
type Commands struct {
	Register    *command.RegisterUserHandler
	Login       *command.LoginUserHandler
	Logout      *command.LogoutUserHandler
	SetPassword *command.SetPasswordHandler
	Subscribe   *command.SubscribeHandler
	Unsubscribe *command.UnsubscribeHandler
}

// Queries groups the user query handlers
type Queries struct {
	GetUser           *query.GetUserHandler
	ListUsers         *query.ListUsersHandler
	ListSubscriptions *query.ListSubscriptionsHandler
	Stats             *query.GetStatsHandler
}

// UserHandler handles HTTP requests for users, auth and subscriptions
type UserHandler struct {
	commands *Commands
	queries  *Queries
	authn    *httpx.Authenticator
	metrics  *httpx.Metrics
	opts     Options
}

// NewUserHandler creates a new user handler
func NewUserHandler(commands *Commands, queries *Queries, authn *httpx.Authenticator, reg prometheus.Registerer, opts Options) *UserHandler {
	if opts.DefaultPageLimit < 1 {
		opts.DefaultPageLimit = 6
	}
	return &UserHandler{
		commands: commands,
		queries:  queries,
		authn:    authn,
		metrics:  httpx.NewMetrics(reg, "foodgram_user"),
		opts:     opts,
	}
}

func (h *UserHandler) page(r *http.Request) pagination.Params {
	return pagination.New(httpx.QueryInt(r, "page", 1), httpx.QueryInt(r, "limit", h.opts.DefaultPageLimit), h.opts.DefaultPageLimit)
}

// Register godoc
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body object{email=string,username=string,first_name=string,last_name=string,password=string} true "Registration data"
// @Success 201 {object} httpx.Response{data=domain.Profile}
// @Failure 400 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	user, err := h.commands.Register.Handle(r.Context(), command.RegisterUserCommand{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, domain.NewProfile(user, false))
}

// Login godoc
// @Summary Obtain an auth token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} httpx.Response{data=command.LoginResponse}
// @Failure 401 {object} httpx.Response
// @Router /api/auth/token/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	resp, err := h.commands.Login.Handle(r.Context(), command.LoginUserCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

// Logout godoc
// @Summary Revoke the current token
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} httpx.Response
// @Router /api/auth/token/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpx.ClaimsFromContext(r.Context())
	err := h.commands.Logout.Handle(r.Context(), command.LogoutUserCommand{
		TokenID:   claims.ID,
		ExpiresIn: claims.Remaining(),
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

// Me godoc
// @Summary Current user profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} httpx.Response{data=domain.Profile}
// @Router /api/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	profile, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: userID, ViewerID: userID})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, profile)
}

// SetPassword godoc
// @Summary Change password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param request body object{current_password=string,new_password=string} true "Passwords"
// @Success 204
// @Failure 400 {object} httpx.Response
// @Router /api/users/set_password [post]
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	err := h.commands.SetPassword.Handle(r.Context(), command.SetPasswordCommand{
		UserID:          httpx.UserIDFromContext(r.Context()),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

// GetUser godoc
// @Summary User profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} httpx.Response{data=domain.Profile}
// @Failure 404 {object} httpx.Response
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(mux.Vars(r)["id"])
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	profile, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: id, ViewerID: httpx.UserIDFromContext(r.Context())})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, profile)
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} httpx.Response{data=pagination.Page[domain.Profile]}
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.ListUsers.Handle(r.Context(), query.ListUsersQuery{
		ViewerID: httpx.UserIDFromContext(r.Context()),
		Page:     h.page(r),
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, page)
}

// ListSubscriptions godoc
// @Summary Authors the current user follows
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes shown per author"
// @Success 200 {object} httpx.Response{data=pagination.Page[domain.Subscription]}
// @Router /api/users/subscriptions [get]
func (h *UserHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.ListSubscriptions.Handle(r.Context(), query.ListSubscriptionsQuery{
		UserID:       httpx.UserIDFromContext(r.Context()),
		Page:         h.page(r),
		RecipesLimit: httpx.QueryInt(r, "recipes_limit", 0),
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, page)
}

// Subscribe godoc
// @Summary Follow an author
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes shown"
// @Success 201 {object} httpx.Response{data=domain.Subscription}
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/users/{id}/subscribe [post]
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := httpx.PathID(mux.Vars(r)["id"])
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	sub, err := h.commands.Subscribe.Handle(r.Context(), command.SubscribeCommand{
		UserID:       httpx.UserIDFromContext(r.Context()),
		AuthorID:     authorID,
		RecipesLimit: httpx.QueryInt(r, "recipes_limit", 0),
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, sub)
}

// Unsubscribe godoc
// @Summary Unfollow an author
// @Tags Subscriptions
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/users/{id}/subscribe [delete]
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := httpx.PathID(mux.Vars(r)["id"])
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}

	err = h.commands.Unsubscribe.Handle(r.Context(), command.SubscribeCommand{
		UserID:   httpx.UserIDFromContext(r.Context()),
		AuthorID: authorID,
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

// GetStats godoc
// @Summary User statistics
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} httpx.Response{data=query.UserStats}
// @Failure 403 {object} httpx.Response
// @Router /api/users/stats [get]
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.Stats.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, stats)
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap
	a := h.authn

	router.HandleFunc("/api/auth/token/login", m("/api/auth/token/login", h.Login)).Methods("POST")
	router.HandleFunc("/api/auth/token/logout", m("/api/auth/token/logout", a.Required(h.Logout))).Methods("POST")

	router.HandleFunc("/api/users", m("/api/users", h.Register)).Methods("POST")
	router.HandleFunc("/api/users", m("/api/users", a.Optional(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/users/me", m("/api/users/me", a.Required(h.Me))).Methods("GET")
	router.HandleFunc("/api/users/set_password", m("/api/users/set_password", a.Required(h.SetPassword))).Methods("POST")
	router.HandleFunc("/api/users/subscriptions", m("/api/users/subscriptions", a.Required(h.ListSubscriptions))).Methods("GET")
	router.HandleFunc("/api/users/stats", m("/api/users/stats", a.Admin(h.GetStats))).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}", m("/api/users/{id}", a.Optional(h.GetUser))).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}/subscribe", m("/api/users/{id}/subscribe", a.Required(h.Subscribe))).Methods("POST")
	router.HandleFunc("/api/users/{id:[0-9]+}/subscribe", m("/api/users/{id}/subscribe", a.Required(h.Unsubscribe))).Methods("DELETE")
}
