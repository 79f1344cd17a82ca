package query

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tair/foodgram/internal/recipe/cache"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/shoppinglist"
	"github.com/tair/foodgram/pkg/logger"
)

// DownloadShoppingListQuery asks for the rendered list of a user
type DownloadShoppingListQuery struct {
	UserID uint
}

// ShoppingListMetrics counts downloads and list sizes
type ShoppingListMetrics struct {
	downloads *prometheus.CounterVec
	lines     prometheus.Histogram
}

// NewShoppingListMetrics registers the shopping list metrics on reg
func NewShoppingListMetrics(reg prometheus.Registerer) *ShoppingListMetrics {
	factory := promauto.With(reg)
	return &ShoppingListMetrics{
		downloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_shopping_list_downloads_total",
				Help: "Total number of shopping list downloads",
			},
			[]string{"cache"},
		),
		lines: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "foodgram_shopping_list_lines",
				Help:    "Number of lines in rendered shopping lists",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
		),
	}
}

// DownloadShoppingListHandler aggregates the user's cart into a plain text list
type DownloadShoppingListHandler struct {
	recipes domain.RecipeRepository
	cache   cache.ShoppingListCache
	policy  shoppinglist.MergePolicy
	metrics *ShoppingListMetrics
}

// NewDownloadShoppingListHandler creates a new download handler
func NewDownloadShoppingListHandler(recipes domain.RecipeRepository, c cache.ShoppingListCache, policy shoppinglist.MergePolicy, metrics *ShoppingListMetrics) *DownloadShoppingListHandler {
	if c == nil {
		c = cache.NopShoppingListCache{}
	}
	return &DownloadShoppingListHandler{recipes: recipes, cache: c, policy: policy, metrics: metrics}
}

// Handle returns the rendered list. An empty cart renders as an empty body.
// The cache generation is read before the cart so that a render racing a cart
// change is stored under a generation the change has already retired.
func (h *DownloadShoppingListHandler) Handle(ctx context.Context, q DownloadShoppingListQuery) ([]byte, error) {
	cacheable := true
	gen, err := h.cache.Generation(ctx, q.UserID)
	if err != nil {
		cacheable = false
		logger.Warn(ctx).Err(err).Uint("user_id", q.UserID).Msg("Shopping list cache unavailable")
	}
	if cacheable {
		body, hit, err := h.cache.Get(ctx, q.UserID, gen)
		if err != nil {
			logger.Warn(ctx).Err(err).Uint("user_id", q.UserID).Msg("Shopping list cache unavailable")
		}
		if hit {
			h.observe("hit", -1)
			return body, nil
		}
	}

	items, err := h.recipes.CartItems(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	list := shoppinglist.Aggregate(items, h.policy)
	body := list.Bytes()

	if cacheable {
		if err := h.cache.Set(ctx, q.UserID, gen, body); err != nil {
			logger.Warn(ctx).Err(err).Uint("user_id", q.UserID).Msg("Failed to cache shopping list")
		}
	}
	h.observe("miss", list.Len())

	logger.Debug(ctx).
		Uint("user_id", q.UserID).
		Int64("generation", gen).
		Int("items", len(items)).
		Int("lines", list.Len()).
		Str("merge_policy", h.policy.String()).
		Msg("Shopping list rendered")
	return body, nil
}

func (h *DownloadShoppingListHandler) observe(cacheResult string, lines int) {
	if h.metrics == nil {
		return
	}
	h.metrics.downloads.WithLabelValues(cacheResult).Inc()
	if lines >= 0 {
		h.metrics.lines.Observe(float64(lines))
	}
}
