package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNormalizes(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 6}, New(0, 0, 6))
	assert.Equal(t, Params{Page: 3, Limit: MaxLimit}, New(3, 1000, 6))
	assert.Equal(t, 20, New(3, 10, 6).Offset())
}

func TestNewPageNeverHasNilResults(t *testing.T) {
	page := NewPage[int](New(1, 5, 5), 0, nil)

	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}
