package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/foodgram/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

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

// UserRepositoryWithTracing wraps a UserRepository with spans
type UserRepositoryWithTracing struct {
	next domain.UserRepository
}

// NewUserRepositoryWithTracing creates a new repository with tracing
func NewUserRepositoryWithTracing(next domain.UserRepository) *UserRepositoryWithTracing {
	return &UserRepositoryWithTracing{next: next}
}

// Create with tracing
func (r *UserRepositoryWithTracing) Create(ctx context.Context, user *domain.User) (err error) {
	ctx, span := startSpan(ctx, "CreateUser", attribute.String("user.username", user.Username))
	defer func() { finish(span, err) }()

	if err = r.next.Create(ctx, user); err == nil {
		span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	}
	return err
}

// FindByID with tracing
func (r *UserRepositoryWithTracing) FindByID(ctx context.Context, id uint) (user *domain.User, err error) {
	ctx, span := startSpan(ctx, "FindUserByID", attribute.Int("user.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.FindByID(ctx, id)
}

// FindByUsername with tracing
func (r *UserRepositoryWithTracing) FindByUsername(ctx context.Context, username string) (user *domain.User, err error) {
	ctx, span := startSpan(ctx, "FindUserByUsername", attribute.String("user.username", username))
	defer func() { finish(span, err) }()
	return r.next.FindByUsername(ctx, username)
}

// FindByEmail with tracing
func (r *UserRepositoryWithTracing) FindByEmail(ctx context.Context, email string) (user *domain.User, err error) {
	ctx, span := startSpan(ctx, "FindUserByEmail")
	defer func() { finish(span, err) }()
	return r.next.FindByEmail(ctx, email)
}

// FindAll with tracing
func (r *UserRepositoryWithTracing) FindAll(ctx context.Context, limit, offset int) (users []domain.User, err error) {
	ctx, span := startSpan(ctx, "FindAllUsers",
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	defer func() { finish(span, err) }()

	users, err = r.next.FindAll(ctx, limit, offset)
	span.SetAttributes(attribute.Int("result.count", len(users)))
	return users, err
}

// Update with tracing
func (r *UserRepositoryWithTracing) Update(ctx context.Context, user *domain.User) (err error) {
	ctx, span := startSpan(ctx, "UpdateUser", attribute.Int("user.id", int(user.ID)))
	defer func() { finish(span, err) }()
	return r.next.Update(ctx, user)
}

// Exists with tracing
func (r *UserRepositoryWithTracing) Exists(ctx context.Context, id uint) (ok bool, err error) {
	ctx, span := startSpan(ctx, "UserExists", attribute.Int("user.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.Exists(ctx, id)
}

// Count with tracing
func (r *UserRepositoryWithTracing) Count(ctx context.Context) (n int64, err error) {
	ctx, span := startSpan(ctx, "CountUsers")
	defer func() { finish(span, err) }()
	return r.next.Count(ctx)
}

// CountByRole with tracing
func (r *UserRepositoryWithTracing) CountByRole(ctx context.Context, role string) (n int64, err error) {
	ctx, span := startSpan(ctx, "CountUsersByRole", attribute.String("user.role", role))
	defer func() { finish(span, err) }()
	return r.next.CountByRole(ctx, role)
}

// SubscriptionRepositoryWithTracing wraps a SubscriptionRepository with spans
type SubscriptionRepositoryWithTracing struct {
	next domain.SubscriptionRepository
}

// NewSubscriptionRepositoryWithTracing creates a new repository with tracing
func NewSubscriptionRepositoryWithTracing(next domain.SubscriptionRepository) *SubscriptionRepositoryWithTracing {
	return &SubscriptionRepositoryWithTracing{next: next}
}

// FindFollowing with tracing
func (r *SubscriptionRepositoryWithTracing) FindFollowing(ctx context.Context, userID uint, limit, offset int) (users []domain.User, err error) {
	ctx, span := startSpan(ctx, "FindFollowing", attribute.Int("user.id", int(userID)))
	defer func() { finish(span, err) }()
	return r.next.FindFollowing(ctx, userID, limit, offset)
}

// CountFollowing with tracing
func (r *SubscriptionRepositoryWithTracing) CountFollowing(ctx context.Context, userID uint) (n int64, err error) {
	ctx, span := startSpan(ctx, "CountFollowing", attribute.Int("user.id", int(userID)))
	defer func() { finish(span, err) }()
	return r.next.CountFollowing(ctx, userID)
}

// FollowingAmong with tracing
func (r *SubscriptionRepositoryWithTracing) FollowingAmong(ctx context.Context, userID uint, authorIDs []uint) (out map[uint]bool, err error) {
	ctx, span := startSpan(ctx, "FollowingAmong",
		attribute.Int("user.id", int(userID)),
		attribute.Int("authors.count", len(authorIDs)),
	)
	defer func() { finish(span, err) }()
	return r.next.FollowingAmong(ctx, userID, authorIDs)
}

// RecipesByAuthors with tracing
func (r *SubscriptionRepositoryWithTracing) RecipesByAuthors(ctx context.Context, authorIDs []uint, limit int) (out map[uint][]domain.RecipeSummary, err error) {
	ctx, span := startSpan(ctx, "RecipesByAuthors",
		attribute.Int("authors.count", len(authorIDs)),
		attribute.Int("query.limit", limit),
	)
	defer func() { finish(span, err) }()
	return r.next.RecipesByAuthors(ctx, authorIDs, limit)
}

// CountRecipesByAuthors with tracing
func (r *SubscriptionRepositoryWithTracing) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (out map[uint]int64, err error) {
	ctx, span := startSpan(ctx, "CountRecipesByAuthors", attribute.Int("authors.count", len(authorIDs)))
	defer func() { finish(span, err) }()
	return r.next.CountRecipesByAuthors(ctx, authorIDs)
}
