package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/kafka"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "shopping_list:user:42:0", Key(42, 0))
	assert.Equal(t, "shopping_list:user:42:7", Key(42, 7))
	assert.Equal(t, "shopping_list:gen:42", GenerationKey(42))
}

func TestNewWithoutClientIsNop(t *testing.T) {
	c := New(nil, time.Minute)
	require.IsType(t, NopShoppingListCache{}, c)

	require.NoError(t, c.Set(context.Background(), 1, 0, []byte("egg - 1 pcs\n")))
	_, hit, err := c.Get(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.False(t, hit)
}

func cached(t *testing.T, c ShoppingListCache, userID uint) ([]byte, bool) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	body, hit, err := c.Get(ctx, userID, gen)
	require.NoError(t, err)
	return body, hit
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryShoppingListCache()

	require.NoError(t, c.Set(ctx, 1, 0, []byte("flour - 100 g\n")))
	require.NoError(t, c.Set(ctx, 2, 0, []byte{}))

	body, hit := cached(t, c, 1)
	assert.True(t, hit)
	assert.Equal(t, "flour - 100 g\n", string(body))

	_, hit = cached(t, c, 2)
	assert.True(t, hit, "empty lists are cached")

	require.NoError(t, c.Invalidate(ctx, 1, 2, 3))
	_, hit = cached(t, c, 1)
	assert.False(t, hit)
	_, hit = cached(t, c, 2)
	assert.False(t, hit)
}

func TestMemoryCacheDropsWritesFromRetiredGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryShoppingListCache()

	gen, err := c.Generation(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 5))
	require.NoError(t, c.Set(ctx, 5, gen, []byte("egg - 2 pcs\n")))

	_, hit := cached(t, c, 5)
	assert.False(t, hit, "a list rendered before the invalidation is not served")

	next, err := c.Generation(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	require.NoError(t, c.Set(ctx, 5, next, []byte("egg - 2 pcs\nmilk - 1 l\n")))
	body, hit := cached(t, c, 5)
	assert.True(t, hit)
	assert.Equal(t, "egg - 2 pcs\nmilk - 1 l\n", string(body))
}

func TestRedisCacheDefaultsTTL(t *testing.T) {
	c := NewRedisShoppingListCache(nil, 0)
	assert.Equal(t, 5*time.Minute, c.ttl)
}

func TestInvalidateOnEvent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryShoppingListCache()
	require.NoError(t, c.Set(ctx, 3, 0, []byte("x")))
	require.NoError(t, c.Set(ctx, 4, 0, []byte("y")))

	handle := InvalidateOnEvent(c)
	require.NoError(t, handle(ctx, kafka.NewRecipeEvent(kafka.EventTypeFavoriteAdded, 1, 3)))
	_, hit := cached(t, c, 3)
	assert.True(t, hit, "favorites do not touch shopping lists")

	require.NoError(t, handle(ctx, kafka.NewRecipeEvent(kafka.EventTypeRecipeDeleted, 1, 9, 3, 4)))
	_, hit = cached(t, c, 3)
	assert.False(t, hit)
	_, hit = cached(t, c, 4)
	assert.False(t, hit)
}
