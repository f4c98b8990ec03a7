package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// Catalog is the fixed, ordered list of purchasable products.
// It is never mutated after NewCatalog returns.
type Catalog struct {
	products []Product
	index    map[int64]int // productID -> position in products
}

// NewCatalog validates products and returns an immutable catalog preserving their order.
func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, len(products)),
		index:    make(map[int64]int, len(products)),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: product at position %d has non-positive id %d", ErrInvalidCatalog, i, p.ID)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: product %d has empty name", ErrInvalidCatalog, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: product %d has negative price %d", ErrInvalidCatalog, p.ID, p.Price)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrInvalidCatalog, p.ID)
		}
		c.index[p.ID] = i
	}

	return c, nil
}

// Products returns a copy of the catalog in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Product(id int64) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Contains(id int64) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.products)
}
