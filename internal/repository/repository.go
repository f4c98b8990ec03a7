package repository

import (
	"context"
	"errors"

	"github.com/fjod/greenleaf/internal/domain"
)

var ErrNoProducts = errors.New("catalog source returned no products")

// Source loads the catalog once at startup. Implementations must return products in catalog order.
type Source interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
}

// LoadCatalog reads src and validates the result into an immutable catalog.
func LoadCatalog(ctx context.Context, src Source) (*domain.Catalog, error) {
	products, err := src.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoProducts
	}
	return domain.NewCatalog(products)
}
