package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/cache"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/domain/domaintest"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	usertest "github.com/tair/foodgram/internal/user/domain/domaintest"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/apperror"
)

type fixture struct {
	store  *domaintest.Memory
	users  *usertest.Memory
	cache  *cache.MemoryShoppingListCache
	bus    *kafka.LocalBus
	events []kafka.RecipeEvent

	flour, egg domain.Ingredient
	breakfast  domain.Tag
	lunch      domain.Tag

	create    *CreateRecipeHandler
	update    *UpdateRecipeHandler
	delete    *DeleteRecipeHandler
	favorites *FavoriteHandler
	cart      *CartHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store: domaintest.NewMemory(),
		users: usertest.NewMemory(),
		cache: cache.NewMemoryShoppingListCache(),
		bus:   kafka.NewLocalBus(),
	}
	f.bus.RegisterHandler(func(_ context.Context, e kafka.RecipeEvent) error {
		f.events = append(f.events, e)
		return nil
	}, kafka.EventTypes...)

	for _, name := range []string{"author", "reader"} {
		u := &userdomain.User{Email: name + "@example.com", Username: name, FirstName: "F", LastName: "L", Role: userdomain.RoleUser, IsActive: true}
		require.NoError(t, f.users.Create(ctx, u))
		f.store.AddAuthor(*u)
	}

	f.flour = domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	f.egg = domain.Ingredient{Name: "egg", MeasurementUnit: "pcs"}
	require.NoError(t, f.store.Ingredients().Create(ctx, &f.flour))
	require.NoError(t, f.store.Ingredients().Create(ctx, &f.egg))
	f.breakfast = domain.Tag{Name: "Breakfast", Color: "#EE6363", Slug: "breakfast"}
	f.lunch = domain.Tag{Name: "Lunch", Color: "#FFA500", Slug: "lunch"}
	require.NoError(t, f.store.Tags().Create(ctx, &f.breakfast))
	require.NoError(t, f.store.Tags().Create(ctx, &f.lunch))

	notifier := NewNotifier(f.bus, f.cache)
	limits := DefaultLimits()
	f.create = NewCreateRecipeHandler(f.store, f.store.Tags(), f.store.Ingredients(), f.users, notifier, limits)
	f.update = NewUpdateRecipeHandler(f.store, f.store.Tags(), f.store.Ingredients(), f.users, notifier, limits)
	f.delete = NewDeleteRecipeHandler(f.store, notifier)
	f.favorites = NewFavoriteHandler(NewFavoriteToggle(f.store.FavoriteStore(), f.store), f.store, notifier)
	f.cart = NewCartHandler(NewCartToggle(f.store.CartStore(), f.store), f.store, notifier)
	return f
}

const (
	authorID uint = 1
	readerID uint = 2
)

func (f *fixture) input() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Image:       "data:image/png;base64,AAAA",
		Text:        "Mix and fry",
		CookingTime: 20,
		Tags:        []uint{f.breakfast.ID},
		Ingredients: []IngredientInput{{ID: f.flour.ID, Amount: 200}, {ID: f.egg.ID, Amount: 2}},
	}
}

func (f *fixture) createRecipe(t *testing.T) *domain.RecipeView {
	t.Helper()
	view, err := f.create.Handle(context.Background(), CreateRecipeCommand{AuthorID: authorID, Input: f.input()})
	require.NoError(t, err)
	return view
}

func TestCreateRecipe(t *testing.T) {
	f := newFixture(t)
	view := f.createRecipe(t)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, "author", view.Author.Username)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, domain.IngredientAmount{ID: f.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200}, view.Ingredients[0])
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)
	assert.False(t, view.IsFavorited)

	require.Len(t, f.events, 1)
	assert.Equal(t, kafka.EventTypeRecipeCreated, f.events[0].EventType)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RecipeInput)
		kind   error
	}{
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, apperror.ErrValidation},
		{"duplicate ingredient", func(in *RecipeInput) {
			in.Ingredients = []IngredientInput{{ID: f.flour.ID, Amount: 1}, {ID: f.flour.ID, Amount: 2}}
		}, apperror.ErrValidation},
		{"zero amount", func(in *RecipeInput) { in.Ingredients[0].Amount = 0 }, apperror.ErrValidation},
		{"amount too large", func(in *RecipeInput) { in.Ingredients[0].Amount = MaxSmallInt + 1 }, apperror.ErrValidation},
		{"unknown ingredient", func(in *RecipeInput) { in.Ingredients[0].ID = 999 }, apperror.ErrNotFound},
		{"no tags", func(in *RecipeInput) { in.Tags = nil }, apperror.ErrValidation},
		{"duplicate tag", func(in *RecipeInput) { in.Tags = []uint{f.lunch.ID, f.lunch.ID} }, apperror.ErrValidation},
		{"unknown tag", func(in *RecipeInput) { in.Tags = []uint{999} }, apperror.ErrValidation},
		{"blank name", func(in *RecipeInput) { in.Name = "  " }, apperror.ErrValidation},
		{"no image", func(in *RecipeInput) { in.Image = "" }, apperror.ErrValidation},
		{"no text", func(in *RecipeInput) { in.Text = "" }, apperror.ErrValidation},
		{"zero cooking time", func(in *RecipeInput) { in.CookingTime = 0 }, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input()
			tt.mutate(&in)
			_, err := f.create.Handle(ctx, CreateRecipeCommand{AuthorID: authorID, Input: in})
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestUpdateRecipeByNonAuthorIsForbidden(t *testing.T) {
	f := newFixture(t)
	view := f.createRecipe(t)

	_, err := f.update.Handle(context.Background(), UpdateRecipeCommand{ID: view.ID, UserID: readerID, Input: f.input()})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.delete.Handle(context.Background(), DeleteRecipeCommand{ID: view.ID, UserID: readerID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func (f *fixture) cacheList(t *testing.T, userID uint, body string) {
	t.Helper()
	ctx := context.Background()
	gen, err := f.cache.Generation(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, userID, gen, []byte(body)))
}

func (f *fixture) cached(userID uint) bool {
	ctx := context.Background()
	gen, _ := f.cache.Generation(ctx, userID)
	_, hit, _ := f.cache.Get(ctx, userID, gen)
	return hit
}

func TestUpdateRecipeReplacesIngredientsAndDropsCachedLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := f.createRecipe(t)

	_, err := f.cart.Add(ctx, RecipeListCommand{UserID: readerID, RecipeID: view.ID})
	require.NoError(t, err)
	f.cacheList(t, readerID, "stale\n")

	in := f.input()
	in.Name = "Egg pancakes"
	in.Tags = []uint{f.breakfast.ID, f.lunch.ID}
	in.Ingredients = []IngredientInput{{ID: f.egg.ID, Amount: 4}}
	updated, err := f.update.Handle(ctx, UpdateRecipeCommand{ID: view.ID, UserID: authorID, Input: in})
	require.NoError(t, err)

	assert.Equal(t, "Egg pancakes", updated.Name)
	assert.Len(t, updated.Tags, 2)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 4, updated.Ingredients[0].Amount)

	assert.False(t, f.cached(readerID))

	last := f.events[len(f.events)-1]
	assert.Equal(t, kafka.EventTypeRecipeUpdated, last.EventType)
	assert.Equal(t, []uint{readerID}, last.AffectedUserIDs)
}

func TestDeleteRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := f.createRecipe(t)

	_, err := f.cart.Add(ctx, RecipeListCommand{UserID: readerID, RecipeID: view.ID})
	require.NoError(t, err)

	require.NoError(t, f.delete.Handle(ctx, DeleteRecipeCommand{ID: view.ID, UserID: authorID}))

	ok, _ := f.store.Exists(ctx, view.ID)
	assert.False(t, ok)
	items, _ := f.store.CartItems(ctx, readerID)
	assert.Empty(t, items)

	last := f.events[len(f.events)-1]
	assert.Equal(t, kafka.EventTypeRecipeDeleted, last.EventType)
	assert.Equal(t, []uint{readerID}, last.AffectedUserIDs)

	err = f.delete.Handle(ctx, DeleteRecipeCommand{ID: view.ID, UserID: authorID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFavoriteToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := f.createRecipe(t)
	cmd := RecipeListCommand{UserID: readerID, RecipeID: view.ID}

	short, err := f.favorites.Add(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, domain.ShortRecipe{ID: view.ID, Name: "Pancakes", Image: view.Image, CookingTime: 20}, *short)

	_, err = f.favorites.Add(ctx, cmd)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, f.favorites.Remove(ctx, cmd))
	assert.ErrorIs(t, f.favorites.Remove(ctx, cmd), apperror.ErrValidation)

	_, err = f.favorites.Add(ctx, RecipeListCommand{UserID: readerID, RecipeID: 999})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCartToggleInvalidatesOwnList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := f.createRecipe(t)
	cmd := RecipeListCommand{UserID: readerID, RecipeID: view.ID}

	f.cacheList(t, readerID, "")
	f.cacheList(t, authorID, "")

	_, err := f.cart.Add(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, f.cached(readerID))
	assert.True(t, f.cached(authorID), "other users keep their lists")

	_, err = f.cart.Add(ctx, cmd)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, f.cart.Remove(ctx, cmd))
	assert.Equal(t, kafka.EventTypeCartRemoved, f.events[len(f.events)-1].EventType)
	assert.ErrorIs(t, f.cart.Remove(ctx, cmd), apperror.ErrValidation)
}

func TestCreateTagAndIngredient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := NewCreateTagHandler(f.store.Tags()).Handle(ctx, CreateTagCommand{Name: "Dinner", Color: "#ffff00", Slug: "dinner"})
	require.NoError(t, err)
	assert.Equal(t, "#FFFF00", tag.Color)

	_, err = NewCreateTagHandler(f.store.Tags()).Handle(ctx, CreateTagCommand{Name: "Supper", Color: "#123456", Slug: "supper"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = NewCreateIngredientHandler(f.store.Ingredients()).Handle(ctx, CreateIngredientCommand{Name: "flour", MeasurementUnit: "g"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	ing, err := NewCreateIngredientHandler(f.store.Ingredients()).Handle(ctx, CreateIngredientCommand{Name: " sugar ", MeasurementUnit: "g"})
	require.NoError(t, err)
	assert.Equal(t, "sugar", ing.Name)
}

func TestLoadIngredientsSkipsExisting(t *testing.T) {
	f := newFixture(t)
	res, err := NewLoadIngredientsHandler(f.store.Ingredients()).Handle(context.Background(), []domain.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Inserted: 1, Skipped: 1}, res)

	_, err = NewLoadIngredientsHandler(f.store.Ingredients()).Handle(context.Background(), []domain.Ingredient{{Name: "", MeasurementUnit: "g"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLoadTags(t *testing.T) {
	f := newFixture(t)
	res, err := NewLoadTagsHandler(f.store.Tags()).Handle(context.Background(), []domain.Tag{
		{Name: "Breakfast", Color: "#EE6363", Slug: "breakfast"},
		{Name: "Dinner", Color: "#90EE90", Slug: "dinner"},
	})
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Inserted: 1, Skipped: 1}, res)
}
