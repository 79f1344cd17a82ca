package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/pagination"
)

// ShoppingListFilename is the attachment name of the downloaded list
const ShoppingListFilename = "shopping_list.txt"

// Options tune list endpoints
type Options struct {
	DefaultPageLimit int
}

// Commands groups the recipe command handlers
type Commands struct {
	CreateRecipe     *command.CreateRecipeHandler
	UpdateRecipe     *command.UpdateRecipeHandler
	DeleteRecipe     *command.DeleteRecipeHandler
	Favorites        *command.FavoriteHandler
	Cart             *command.CartHandler
	CreateTag        *command.CreateTagHandler
	CreateIngredient *command.CreateIngredientHandler
}

// Queries groups the recipe query handlers
type Queries struct {
	GetRecipe         *query.GetRecipeHandler
	ListRecipes       *query.ListRecipesHandler
	ListTags          *query.ListTagsHandler
	GetTag            *query.GetTagHandler
	SearchIngredients *query.SearchIngredientsHandler
	GetIngredient     *query.GetIngredientHandler
	ShoppingList      *query.DownloadShoppingListHandler
}

// RecipeHandler handles HTTP requests for recipes, tags and ingredients
type RecipeHandler struct {
	commands *Commands
	queries  *Queries
	authn    *httpx.Authenticator
	metrics  *httpx.Metrics
	opts     Options
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(commands *Commands, queries *Queries, authn *httpx.Authenticator, reg prometheus.Registerer, opts Options) *RecipeHandler {
	if opts.DefaultPageLimit < 1 {
		opts.DefaultPageLimit = 6
	}
	return &RecipeHandler{
		commands: commands,
		queries:  queries,
		authn:    authn,
		metrics:  httpx.NewMetrics(reg, "foodgram_recipe"),
		opts:     opts,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := httpx.PathID(mux.Vars(r)["id"])
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return 0, false
	}
	return id, true
}

// ListRecipes godoc
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param author query int false "Author ID"
// @Param is_favorited query int false "Only favorites (1)"
// @Param is_in_shopping_cart query int false "Only recipes in cart (1)"
// @Success 200 {object} httpx.Response{data=pagination.Page[domain.RecipeView]}
// @Router /api/recipes [get]
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := query.ListRecipesQuery{
		ViewerID:         httpx.UserIDFromContext(r.Context()),
		Page:             pagination.New(httpx.QueryInt(r, "page", 1), httpx.QueryInt(r, "limit", h.opts.DefaultPageLimit), h.opts.DefaultPageLimit),
		TagSlugs:         r.URL.Query()["tags"],
		IsFavorited:      httpx.QueryFlag(r, "is_favorited"),
		IsInShoppingCart: httpx.QueryFlag(r, "is_in_shopping_cart"),
	}
	if raw := r.URL.Query().Get("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httpx.RespondError(w, http.StatusBadRequest, "author must be a user id")
			return
		}
		q.AuthorID = uint(author)
	}

	page, err := h.queries.ListRecipes.Handle(r.Context(), q)
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, page)
}

// GetRecipe godoc
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} httpx.Response{data=domain.RecipeView}
// @Failure 404 {object} httpx.Response
// @Router /api/recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := h.queries.GetRecipe.Handle(r.Context(), query.GetRecipeQuery{ID: id, ViewerID: httpx.UserIDFromContext(r.Context())})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, view)
}

// CreateRecipe godoc
// @Summary Publish a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body command.RecipeInput true "Recipe"
// @Success 201 {object} httpx.Response{data=domain.RecipeView}
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/recipes [post]
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var in command.RecipeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	view, err := h.commands.CreateRecipe.Handle(r.Context(), command.CreateRecipeCommand{
		AuthorID: httpx.UserIDFromContext(r.Context()),
		Input:    in,
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, view)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body command.RecipeInput true "Recipe"
// @Success 200 {object} httpx.Response{data=domain.RecipeView}
// @Failure 400 {object} httpx.Response
// @Failure 403 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/recipes/{id} [patch]
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in command.RecipeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	view, err := h.commands.UpdateRecipe.Handle(r.Context(), command.UpdateRecipeCommand{
		ID:     id,
		UserID: httpx.UserIDFromContext(r.Context()),
		Input:  in,
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, view)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := h.commands.DeleteRecipe.Handle(r.Context(), command.DeleteRecipeCommand{ID: id, UserID: httpx.UserIDFromContext(r.Context())})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

type listAction struct {
	add    func(w http.ResponseWriter, r *http.Request)
	remove func(w http.ResponseWriter, r *http.Request)
}

func (h *RecipeHandler) membership(
	add func(r *http.Request, cmd command.RecipeListCommand) (*domain.ShortRecipe, error),
	remove func(r *http.Request, cmd command.RecipeListCommand) error,
) listAction {
	cmdFrom := func(w http.ResponseWriter, r *http.Request) (command.RecipeListCommand, bool) {
		id, ok := pathID(w, r)
		return command.RecipeListCommand{UserID: httpx.UserIDFromContext(r.Context()), RecipeID: id}, ok
	}
	return listAction{
		add: func(w http.ResponseWriter, r *http.Request) {
			cmd, ok := cmdFrom(w, r)
			if !ok {
				return
			}
			short, err := add(r, cmd)
			if err != nil {
				httpx.RespondAppError(w, r, err)
				return
			}
			httpx.RespondJSON(w, http.StatusCreated, short)
		},
		remove: func(w http.ResponseWriter, r *http.Request) {
			cmd, ok := cmdFrom(w, r)
			if !ok {
				return
			}
			if err := remove(r, cmd); err != nil {
				httpx.RespondAppError(w, r, err)
				return
			}
			httpx.RespondNoContent(w)
		},
	}
}

// Favorite godoc
// @Summary Add to or remove from favorites
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} httpx.Response{data=domain.ShortRecipe}
// @Success 204
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/recipes/{id}/favorite [post]
// @Router /api/recipes/{id}/favorite [delete]
func (h *RecipeHandler) favorite() listAction {
	return h.membership(
		func(r *http.Request, cmd command.RecipeListCommand) (*domain.ShortRecipe, error) {
			return h.commands.Favorites.Add(r.Context(), cmd)
		},
		func(r *http.Request, cmd command.RecipeListCommand) error {
			return h.commands.Favorites.Remove(r.Context(), cmd)
		},
	)
}

// ShoppingCart godoc
// @Summary Add to or remove from the shopping cart
// @Tags Shopping cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} httpx.Response{data=domain.ShortRecipe}
// @Success 204
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/recipes/{id}/shopping_cart [post]
// @Router /api/recipes/{id}/shopping_cart [delete]
func (h *RecipeHandler) shoppingCart() listAction {
	return h.membership(
		func(r *http.Request, cmd command.RecipeListCommand) (*domain.ShortRecipe, error) {
			return h.commands.Cart.Add(r.Context(), cmd)
		},
		func(r *http.Request, cmd command.RecipeListCommand) error {
			return h.commands.Cart.Remove(r.Context(), cmd)
		},
	)
}

// DownloadShoppingCart godoc
// @Summary Download the aggregated shopping list
// @Description One line per ingredient: "name - amount unit". An empty cart gives an empty file.
// @Tags Shopping cart
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string "shopping list"
// @Failure 401 {object} httpx.Response
// @Router /api/recipes/download_shopping_cart [get]
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	body, err := h.queries.ShoppingList.Handle(r.Context(), query.DownloadShoppingListQuery{UserID: httpx.UserIDFromContext(r.Context())})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+ShoppingListFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ListTags godoc
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {object} httpx.Response{data=[]domain.Tag}
// @Router /api/tags [get]
func (h *RecipeHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.ListTags.Handle(r.Context())
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} httpx.Response{data=domain.Tag}
// @Failure 404 {object} httpx.Response
// @Router /api/tags/{id} [get]
func (h *RecipeHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tag, err := h.queries.GetTag.Handle(r.Context(), id)
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, tag)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags Tags
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,color=string,slug=string} true "Tag"
// @Success 201 {object} httpx.Response{data=domain.Tag}
// @Failure 400 {object} httpx.Response
// @Failure 403 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/tags [post]
func (h *RecipeHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	tag, err := h.commands.CreateTag.Handle(r.Context(), command.CreateTagCommand{Name: req.Name, Color: req.Color, Slug: req.Slug})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, tag)
}

// ListIngredients godoc
// @Summary Search ingredients
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {object} httpx.Response{data=[]domain.Ingredient}
// @Router /api/ingredients [get]
func (h *RecipeHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.queries.SearchIngredients.Handle(r.Context(), query.SearchIngredientsQuery{Name: r.URL.Query().Get("name")})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, ingredients)
}

// GetIngredient godoc
// @Summary Get an ingredient
// @Tags Ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} httpx.Response{data=domain.Ingredient}
// @Failure 404 {object} httpx.Response
// @Router /api/ingredients/{id} [get]
func (h *RecipeHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ingredient, err := h.queries.GetIngredient.Handle(r.Context(), id)
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, ingredient)
}

// CreateIngredient godoc
// @Summary Create an ingredient
// @Tags Ingredients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,measurement_unit=string} true "Ingredient"
// @Success 201 {object} httpx.Response{data=domain.Ingredient}
// @Failure 400 {object} httpx.Response
// @Failure 403 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/ingredients [post]
func (h *RecipeHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	ingredient, err := h.commands.CreateIngredient.Handle(r.Context(), command.CreateIngredientCommand{
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	})
	if err != nil {
		httpx.RespondAppError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, ingredient)
}

// RegisterRoutes registers all recipe, tag and ingredient routes
func (h *RecipeHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap
	a := h.authn
	favorite := h.favorite()
	cart := h.shoppingCart()

	router.HandleFunc("/api/recipes", m("/api/recipes", a.Optional(h.ListRecipes))).Methods("GET")
	router.HandleFunc("/api/recipes", m("/api/recipes", a.Required(h.CreateRecipe))).Methods("POST")
	router.HandleFunc("/api/recipes/download_shopping_cart", m("/api/recipes/download_shopping_cart", a.Required(h.DownloadShoppingCart))).Methods("GET")
	router.HandleFunc("/api/recipes/{id:[0-9]+}", m("/api/recipes/{id}", a.Optional(h.GetRecipe))).Methods("GET")
	router.HandleFunc("/api/recipes/{id:[0-9]+}", m("/api/recipes/{id}", a.Required(h.UpdateRecipe))).Methods("PATCH")
	router.HandleFunc("/api/recipes/{id:[0-9]+}", m("/api/recipes/{id}", a.Required(h.DeleteRecipe))).Methods("DELETE")
	router.HandleFunc("/api/recipes/{id:[0-9]+}/favorite", m("/api/recipes/{id}/favorite", a.Required(favorite.add))).Methods("POST")
	router.HandleFunc("/api/recipes/{id:[0-9]+}/favorite", m("/api/recipes/{id}/favorite", a.Required(favorite.remove))).Methods("DELETE")
	router.HandleFunc("/api/recipes/{id:[0-9]+}/shopping_cart", m("/api/recipes/{id}/shopping_cart", a.Required(cart.add))).Methods("POST")
	router.HandleFunc("/api/recipes/{id:[0-9]+}/shopping_cart", m("/api/recipes/{id}/shopping_cart", a.Required(cart.remove))).Methods("DELETE")

	router.HandleFunc("/api/tags", m("/api/tags", h.ListTags)).Methods("GET")
	router.HandleFunc("/api/tags", m("/api/tags", a.Admin(h.CreateTag))).Methods("POST")
	router.HandleFunc("/api/tags/{id:[0-9]+}", m("/api/tags/{id}", h.GetTag)).Methods("GET")

	router.HandleFunc("/api/ingredients", m("/api/ingredients", h.ListIngredients)).Methods("GET")
	router.HandleFunc("/api/ingredients", m("/api/ingredients", a.Admin(h.CreateIngredient))).Methods("POST")
	router.HandleFunc("/api/ingredients/{id:[0-9]+}", m("/api/ingredients/{id}", h.GetIngredient)).Methods("GET")
}
