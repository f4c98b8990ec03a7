package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{ID: 1, Name: "Snake Plant", Price: 15, Category: "Indoor", Image: "/images/snake.jpg"},
		{ID: 2, Name: "Aloe Vera", Price: 12, Category: "Succulents", Image: "/images/aloe.jpg"},
	}
}

func TestNewCatalog_PreservesOrder(t *testing.T) {
	catalog, err := NewCatalog(testProducts())
	require.NoError(t, err)

	products := catalog.Products()
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(2), products[1].ID)
	assert.Equal(t, 2, catalog.Len())
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		products []Product
	}{
		{"zero id", []Product{{ID: 0, Name: "x"}}},
		{"negative id", []Product{{ID: -3, Name: "x"}}},
		{"empty name", []Product{{ID: 1}}},
		{"negative price", []Product{{ID: 1, Name: "x", Price: -1}}},
		{"duplicate id", []Product{{ID: 1, Name: "x"}, {ID: 1, Name: "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.products)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestNewCatalog_EmptyIsValid(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, catalog.Len())
}

func TestCatalog_IsImmutable(t *testing.T) {
	input := testProducts()
	catalog, err := NewCatalog(input)
	require.NoError(t, err)

	input[0].Price = 999
	out := catalog.Products()
	out[1].Name = "changed"

	p, ok := catalog.Product(1)
	require.True(t, ok)
	assert.Equal(t, int64(15), p.Price)

	p, ok = catalog.Product(2)
	require.True(t, ok)
	assert.Equal(t, "Aloe Vera", p.Name)
}

func TestCatalog_Lookup(t *testing.T) {
	catalog, err := NewCatalog(testProducts())
	require.NoError(t, err)

	assert.True(t, catalog.Contains(2))
	assert.False(t, catalog.Contains(42))

	_, ok := catalog.Product(42)
	assert.False(t, ok)
}
