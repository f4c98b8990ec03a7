package cache

import (
	"context"
	"errors"

	"github.com/fjod/greenleaf/internal/domain"
	"github.com/fjod/greenleaf/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CachedSource puts a catalog snapshot cache in front of another source.
type CachedSource struct {
	source repository.Source
	cache  CatalogCache
	log    logrus.FieldLogger
	sfg    singleflight.Group // one source load per miss
}

func NewCachedSource(source repository.Source, cache CatalogCache, log logrus.FieldLogger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
		log:    log,
	}
}

func (s *CachedSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(catalogKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			s.log.WithField("products", len(products)).Debug("catalog served from cache")
			return products, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.log.WithError(err).Warn("catalog cache get failed, falling back to source")
		}

		products, err = s.source.LoadProducts(ctx)
		if err != nil {
			return nil, err
		}

		if len(products) > 0 {
			if err := s.cache.Set(ctx, products); err != nil {
				s.log.WithError(err).Warn("catalog cache set failed")
			}
		}

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx)
}
