package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/cache"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/domain/domaintest"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/internal/shoppinglist"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	usertest "github.com/tair/foodgram/internal/user/domain/domaintest"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/httpx"
)

type testEnv struct {
	router *mux.Router
	store  *domaintest.Memory
	author string
	reader string
	admin  string
	flour  domain.Ingredient
	egg    domain.Ingredient
	tag    domain.Tag
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth.Configure("recipe-http-test", time.Hour)
	ctx := context.Background()

	store := domaintest.NewMemory()
	users := usertest.NewMemory()
	env := &testEnv{store: store}

	tokens := map[string]*string{"author": &env.author, "reader": &env.reader, "admin": &env.admin}
	for _, name := range []string{"author", "reader", "admin"} {
		role := userdomain.RoleUser
		if name == "admin" {
			role = userdomain.RoleAdmin
		}
		u := &userdomain.User{Email: name + "@example.com", Username: name, FirstName: "F", LastName: "L", Role: role, IsActive: true}
		require.NoError(t, users.Create(ctx, u))
		store.AddAuthor(*u)
		token, err := auth.GenerateToken(u.ID, u.Username, u.Role)
		require.NoError(t, err)
		*tokens[name] = token
	}

	env.flour = domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	env.egg = domain.Ingredient{Name: "egg", MeasurementUnit: "pcs"}
	require.NoError(t, store.Ingredients().Create(ctx, &env.flour))
	require.NoError(t, store.Ingredients().Create(ctx, &env.egg))
	env.tag = domain.Tag{Name: "Breakfast", Color: "#EE6363", Slug: "breakfast"}
	require.NoError(t, store.Tags().Create(ctx, &env.tag))

	shoppingCache := cache.NewMemoryShoppingListCache()
	notifier := command.NewNotifier(kafka.NewLocalBus(), shoppingCache)
	limits := command.DefaultLimits()

	h := NewRecipeHandler(
		&Commands{
			CreateRecipe:     command.NewCreateRecipeHandler(store, store.Tags(), store.Ingredients(), users, notifier, limits),
			UpdateRecipe:     command.NewUpdateRecipeHandler(store, store.Tags(), store.Ingredients(), users, notifier, limits),
			DeleteRecipe:     command.NewDeleteRecipeHandler(store, notifier),
			Favorites:        command.NewFavoriteHandler(command.NewFavoriteToggle(store.FavoriteStore(), store), store, notifier),
			Cart:             command.NewCartHandler(command.NewCartToggle(store.CartStore(), store), store, notifier),
			CreateTag:        command.NewCreateTagHandler(store.Tags()),
			CreateIngredient: command.NewCreateIngredientHandler(store.Ingredients()),
		},
		&Queries{
			GetRecipe:         query.NewGetRecipeHandler(store, users),
			ListRecipes:       query.NewListRecipesHandler(store, users),
			ListTags:          query.NewListTagsHandler(store.Tags()),
			GetTag:            query.NewGetTagHandler(store.Tags()),
			SearchIngredients: query.NewSearchIngredientsHandler(store.Ingredients()),
			GetIngredient:     query.NewGetIngredientHandler(store.Ingredients()),
			ShoppingList:      query.NewDownloadShoppingListHandler(store, shoppingCache, shoppinglist.MergeByNameAndUnit, query.NewShoppingListMetrics(prometheus.NewRegistry())),
		},
		httpx.NewAuthenticator(auth.NopDenylist{}),
		prometheus.NewRegistry(),
		Options{DefaultPageLimit: 6},
	)

	env.router = mux.NewRouter()
	h.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) recipeBody(flourAmount int) map[string]any {
	return map[string]any{
		"name":         "Pancakes",
		"image":        "data:image/png;base64,AAAA",
		"text":         "Mix and fry",
		"cooking_time": 15,
		"tags":         []uint{e.tag.ID},
		"ingredients": []map[string]any{
			{"id": e.flour.ID, "amount": flourAmount},
			{"id": e.egg.ID, "amount": 2},
		},
	}
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, rec.Body.String())
	return env.Data
}

func (e *testEnv) createRecipe(t *testing.T, flourAmount int) domain.RecipeView {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/recipes", e.author, e.recipeBody(flourAmount))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[domain.RecipeView](t, rec)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/recipes", "", env.recipeBody(100))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndGetRecipe(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, 100)
	assert.Equal(t, "author", created.Author.Username)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[domain.RecipeView](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Ingredients, 2)

	rec = env.do(http.MethodGet, "/api/recipes/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateByOtherUserIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, 100)

	rec := env.do(http.MethodPatch, fmt.Sprintf("/api/recipes/%d", created.ID), env.reader, env.recipeBody(300))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/recipes/%d", created.ID), env.author, env.recipeBody(300))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 300, decodeData[domain.RecipeView](t, rec).Ingredients[0].Amount)
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, 100)
	path := fmt.Sprintf("/api/recipes/%d/favorite", created.ID)

	rec := env.do(http.MethodPost, path, env.reader, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	short := decodeData[domain.ShortRecipe](t, rec)
	assert.Equal(t, created.ID, short.ID)

	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, path, env.reader, nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, env.reader, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodDelete, path, env.reader, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/recipes/999/favorite", env.reader, nil).Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	env := newTestEnv(t)
	first := env.createRecipe(t, 100)
	second := env.createRecipe(t, 250)

	rec := env.do(http.MethodGet, "/api/recipes/download_shopping_cart", env.reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "attachment; filename=shopping_list.txt", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	for _, id := range []uint{first.ID, second.ID} {
		rec := env.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), env.reader, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(http.MethodGet, "/api/recipes/download_shopping_cart", env.reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "flour - 350 g\negg - 4 pcs\n", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/recipes/download_shopping_cart", "", nil).Code)
}

func TestListRecipesFlagsForViewer(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, 100)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", created.ID), env.reader, nil).Code)

	rec := env.do(http.MethodGet, "/api/recipes?is_in_shopping_cart=1&tags=breakfast", env.reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[struct {
		Count   int64               `json:"count"`
		Results []domain.RecipeView `json:"results"`
	}](t, rec)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsInShoppingCart)

	rec = env.do(http.MethodGet, "/api/recipes?author=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReferenceDataAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"name": "Dinner", "color": "#000080", "slug": "dinner"}

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/tags", env.reader, body).Code)
	assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/tags", env.admin, body).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/tags", env.admin, body).Code)

	rec := env.do(http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]domain.Tag](t, rec), 2)

	ing := map[string]string{"name": "flour", "measurement_unit": "g"}
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/ingredients", env.admin, ing).Code)

	rec = env.do(http.MethodGet, "/api/ingredients?name=FL", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeData[[]domain.Ingredient](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "flour", found[0].Name)
}
