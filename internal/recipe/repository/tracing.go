package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/shoppinglist"
)

var tracer = otel.Tracer("recipe-repository")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecipeRepositoryWithTracing wraps a RecipeRepository with spans
type RecipeRepositoryWithTracing struct {
	next domain.RecipeRepository
}

// NewRecipeRepositoryWithTracing creates a new repository with tracing
func NewRecipeRepositoryWithTracing(next domain.RecipeRepository) *RecipeRepositoryWithTracing {
	return &RecipeRepositoryWithTracing{next: next}
}

// Create with tracing
func (r *RecipeRepositoryWithTracing) Create(ctx context.Context, recipe *domain.Recipe) (err error) {
	ctx, span := startSpan(ctx, "CreateRecipe",
		attribute.Int("recipe.author_id", int(recipe.AuthorID)),
		attribute.Int("recipe.ingredients", len(recipe.Ingredients)),
	)
	defer func() { finish(span, err) }()

	if err = r.next.Create(ctx, recipe); err == nil {
		span.SetAttributes(attribute.Int("recipe.id", int(recipe.ID)))
	}
	return err
}

// Update with tracing
func (r *RecipeRepositoryWithTracing) Update(ctx context.Context, recipe *domain.Recipe) (err error) {
	ctx, span := startSpan(ctx, "UpdateRecipe", attribute.Int("recipe.id", int(recipe.ID)))
	defer func() { finish(span, err) }()
	return r.next.Update(ctx, recipe)
}

// Delete with tracing
func (r *RecipeRepositoryWithTracing) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "DeleteRecipe", attribute.Int("recipe.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.Delete(ctx, id)
}

// FindByID with tracing
func (r *RecipeRepositoryWithTracing) FindByID(ctx context.Context, id uint) (recipe *domain.Recipe, err error) {
	ctx, span := startSpan(ctx, "FindRecipeByID", attribute.Int("recipe.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.FindByID(ctx, id)
}

// Exists with tracing
func (r *RecipeRepositoryWithTracing) Exists(ctx context.Context, id uint) (ok bool, err error) {
	ctx, span := startSpan(ctx, "RecipeExists", attribute.Int("recipe.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.Exists(ctx, id)
}

// List with tracing
func (r *RecipeRepositoryWithTracing) List(ctx context.Context, f domain.RecipeFilter, limit, offset int) (recipes []domain.Recipe, count int64, err error) {
	ctx, span := startSpan(ctx, "ListRecipes",
		attribute.StringSlice("filter.tags", f.TagSlugs),
		attribute.Int("filter.author_id", int(f.AuthorID)),
		attribute.Bool("filter.favorited", f.FavoritedBy != 0),
		attribute.Bool("filter.in_cart", f.InCartOf != 0),
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	defer func() { finish(span, err) }()

	recipes, count, err = r.next.List(ctx, f, limit, offset)
	span.SetAttributes(attribute.Int("result.count", len(recipes)), attribute.Int64("result.total", count))
	return recipes, count, err
}

// FavoritedAmong with tracing
func (r *RecipeRepositoryWithTracing) FavoritedAmong(ctx context.Context, userID uint, recipeIDs []uint) (out map[uint]bool, err error) {
	ctx, span := startSpan(ctx, "FavoritedAmong",
		attribute.Int("user.id", int(userID)),
		attribute.Int("recipes.count", len(recipeIDs)),
	)
	defer func() { finish(span, err) }()
	return r.next.FavoritedAmong(ctx, userID, recipeIDs)
}

// InCartAmong with tracing
func (r *RecipeRepositoryWithTracing) InCartAmong(ctx context.Context, userID uint, recipeIDs []uint) (out map[uint]bool, err error) {
	ctx, span := startSpan(ctx, "InCartAmong",
		attribute.Int("user.id", int(userID)),
		attribute.Int("recipes.count", len(recipeIDs)),
	)
	defer func() { finish(span, err) }()
	return r.next.InCartAmong(ctx, userID, recipeIDs)
}

// CartItems with tracing
func (r *RecipeRepositoryWithTracing) CartItems(ctx context.Context, userID uint) (items []shoppinglist.Item, err error) {
	ctx, span := startSpan(ctx, "CartItems", attribute.Int("user.id", int(userID)))
	defer func() { finish(span, err) }()

	items, err = r.next.CartItems(ctx, userID)
	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, err
}

// CartUsers with tracing
func (r *RecipeRepositoryWithTracing) CartUsers(ctx context.Context, recipeID uint) (ids []uint, err error) {
	ctx, span := startSpan(ctx, "CartUsers", attribute.Int("recipe.id", int(recipeID)))
	defer func() { finish(span, err) }()
	return r.next.CartUsers(ctx, recipeID)
}

// TagRepositoryWithTracing wraps a TagRepository with spans
type TagRepositoryWithTracing struct {
	next domain.TagRepository
}

// NewTagRepositoryWithTracing creates a new repository with tracing
func NewTagRepositoryWithTracing(next domain.TagRepository) *TagRepositoryWithTracing {
	return &TagRepositoryWithTracing{next: next}
}

// Create with tracing
func (r *TagRepositoryWithTracing) Create(ctx context.Context, tag *domain.Tag) (err error) {
	ctx, span := startSpan(ctx, "CreateTag", attribute.String("tag.slug", tag.Slug))
	defer func() { finish(span, err) }()
	return r.next.Create(ctx, tag)
}

// Upsert with tracing
func (r *TagRepositoryWithTracing) Upsert(ctx context.Context, tag *domain.Tag) (inserted bool, err error) {
	ctx, span := startSpan(ctx, "UpsertTag", attribute.String("tag.slug", tag.Slug))
	defer func() { finish(span, err) }()
	return r.next.Upsert(ctx, tag)
}

// FindAll with tracing
func (r *TagRepositoryWithTracing) FindAll(ctx context.Context) (tags []domain.Tag, err error) {
	ctx, span := startSpan(ctx, "FindAllTags")
	defer func() { finish(span, err) }()
	return r.next.FindAll(ctx)
}

// FindByID with tracing
func (r *TagRepositoryWithTracing) FindByID(ctx context.Context, id uint) (tag *domain.Tag, err error) {
	ctx, span := startSpan(ctx, "FindTagByID", attribute.Int("tag.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.FindByID(ctx, id)
}

// FindByIDs with tracing
func (r *TagRepositoryWithTracing) FindByIDs(ctx context.Context, ids []uint) (tags []domain.Tag, err error) {
	ctx, span := startSpan(ctx, "FindTagsByIDs", attribute.Int("tags.count", len(ids)))
	defer func() { finish(span, err) }()
	return r.next.FindByIDs(ctx, ids)
}

// IngredientRepositoryWithTracing wraps an IngredientRepository with spans
type IngredientRepositoryWithTracing struct {
	next domain.IngredientRepository
}

// NewIngredientRepositoryWithTracing creates a new repository with tracing
func NewIngredientRepositoryWithTracing(next domain.IngredientRepository) *IngredientRepositoryWithTracing {
	return &IngredientRepositoryWithTracing{next: next}
}

// Create with tracing
func (r *IngredientRepositoryWithTracing) Create(ctx context.Context, ingredient *domain.Ingredient) (err error) {
	ctx, span := startSpan(ctx, "CreateIngredient", attribute.String("ingredient.name", ingredient.Name))
	defer func() { finish(span, err) }()
	return r.next.Create(ctx, ingredient)
}

// Upsert with tracing
func (r *IngredientRepositoryWithTracing) Upsert(ctx context.Context, ingredient *domain.Ingredient) (inserted bool, err error) {
	ctx, span := startSpan(ctx, "UpsertIngredient", attribute.String("ingredient.name", ingredient.Name))
	defer func() { finish(span, err) }()
	return r.next.Upsert(ctx, ingredient)
}

// Search with tracing
func (r *IngredientRepositoryWithTracing) Search(ctx context.Context, prefix string) (ingredients []domain.Ingredient, err error) {
	ctx, span := startSpan(ctx, "SearchIngredients", attribute.String("query.prefix", prefix))
	defer func() { finish(span, err) }()

	ingredients, err = r.next.Search(ctx, prefix)
	span.SetAttributes(attribute.Int("result.count", len(ingredients)))
	return ingredients, err
}

// FindByID with tracing
func (r *IngredientRepositoryWithTracing) FindByID(ctx context.Context, id uint) (ingredient *domain.Ingredient, err error) {
	ctx, span := startSpan(ctx, "FindIngredientByID", attribute.Int("ingredient.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.FindByID(ctx, id)
}

// FindByIDs with tracing
func (r *IngredientRepositoryWithTracing) FindByIDs(ctx context.Context, ids []uint) (ingredients []domain.Ingredient, err error) {
	ctx, span := startSpan(ctx, "FindIngredientsByIDs", attribute.Int("ingredients.count", len(ids)))
	defer func() { finish(span, err) }()
	return r.next.FindByIDs(ctx, ids)
}
