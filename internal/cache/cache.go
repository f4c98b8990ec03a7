package cache

import (
	"context"
	"errors"

	"github.com/fjod/greenleaf/internal/domain"
)

type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
