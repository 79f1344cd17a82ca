package shoppinglist

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recipe A: flour 200 g, egg 2 pcs; recipe B: flour 100 g, milk 1 l
var twoRecipes = []Item{
	{Name: "flour", Unit: "g", Amount: 200},
	{Name: "egg", Unit: "pcs", Amount: 2},
	{Name: "flour", Unit: "g", Amount: 100},
	{Name: "milk", Unit: "l", Amount: 1},
}

// salt appears with two different units across recipes
var unitMismatch = []Item{
	{Name: "salt", Unit: "g", Amount: 5},
	{Name: "sugar", Unit: "g", Amount: 100},
	{Name: "salt", Unit: "pinch", Amount: 1},
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestAggregateSumsSameIngredientInFirstSeenOrder(t *testing.T) {
	list := Aggregate(twoRecipes, MergeByNameAndUnit)

	assert.Equal(t, []Line{
		{Name: "flour", Unit: "g", Amount: 300},
		{Name: "egg", Unit: "pcs", Amount: 2},
		{Name: "milk", Unit: "l", Amount: 1},
	}, list.Lines())

	golden(t).Assert(t, "two_recipes", list.Bytes())
}

func TestAggregateEmptyCart(t *testing.T) {
	list := Aggregate(nil, MergeByNameAndUnit)

	assert.Zero(t, list.Len())
	assert.Empty(t, list.Lines())
	assert.Empty(t, list.Bytes())
}

func TestOrderIsInsertionNotAlphabetical(t *testing.T) {
	list := Aggregate([]Item{
		{Name: "zucchini", Unit: "pcs", Amount: 1},
		{Name: "apple", Unit: "pcs", Amount: 3},
		{Name: "zucchini", Unit: "pcs", Amount: 2},
	}, MergeByNameAndUnit)

	assert.Equal(t, "zucchini - 3 pcs\napple - 3 pcs\n", string(list.Bytes()))
}

// Same name with a different unit is kept apart by default.
func TestUnitMismatchKeptSeparateByDefault(t *testing.T) {
	list := Aggregate(unitMismatch, MergeByNameAndUnit)

	require.Equal(t, 3, list.Len())
	golden(t).Assert(t, "unit_mismatch_name_unit", list.Bytes())
}

// The legacy policy sums across units under the first unit seen. This loses
// information ("6 g" of salt is not what the cart asked for) and is kept only
// for compatibility with the older output.
func TestUnitMismatchSummedUnderFirstUnitByNamePolicy(t *testing.T) {
	list := Aggregate(unitMismatch, MergeByName)

	require.Equal(t, 2, list.Len())
	assert.Equal(t, Line{Name: "salt", Unit: "g", Amount: 6}, list.Lines()[0])
	golden(t).Assert(t, "unit_mismatch_name", list.Bytes())
}

func TestWriteToReportsBytesWritten(t *testing.T) {
	var buf bytes.Buffer
	n, err := Aggregate(twoRecipes, MergeByNameAndUnit).WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
}

func TestParseMergePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MergePolicy
		wantErr bool
	}{
		{in: "", want: MergeByNameAndUnit},
		{in: "name_unit", want: MergeByNameAndUnit},
		{in: " NAME ", want: MergeByName},
		{in: "alphabetical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMergePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) MergePolicy {
	t.Helper()
	p, err := ParseMergePolicy(s)
	require.NoError(t, err)
	return p
}
