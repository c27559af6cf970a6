package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Shape(t *testing.T) {
	products, err := Seed()
	require.NoError(t, err)
	require.Len(t, products, 21)

	seen := make(map[int64]bool)
	categories := make(map[string]bool)
	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ID, "seed is ordered by id")
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
		categories[p.Category] = true

		assert.NotEmpty(t, p.Name)
		assert.Positive(t, p.Price)
		assert.NotEmpty(t, p.Image)
		assert.GreaterOrEqual(t, p.AverageRating, 0.0)
		assert.LessOrEqual(t, p.AverageRating, 5.0)
	}
	assert.Len(t, categories, 7)
}

func TestSeed_KnownProducts(t *testing.T) {
	products, err := Seed()
	require.NoError(t, err)

	laptop := products[0]
	assert.Equal(t, "Starlight Laptop X15", laptop.Name)
	assert.Equal(t, int64(149999), laptop.Price)
	assert.Len(t, laptop.Reviews, 2)
	require.Len(t, laptop.Questions, 1)
	require.NotNil(t, laptop.Questions[0].Answer)
	assert.Equal(t, "2023-11-01", laptop.Questions[0].Date.Format("2006-01-02"))

	assert.Equal(t, int64(3495), products[20].Price)
	assert.Equal(t, "Sports & Outdoors", products[20].Category)
}

func TestSeed_ReturnsFreshCopies(t *testing.T) {
	a, err := Seed()
	require.NoError(t, err)
	a[0].Image = "changed"

	b, err := Seed()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", b[0].Image)
}
