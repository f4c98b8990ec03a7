package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/fjod/greenleaf/internal/domain"
)

//go:embed seed/plants.json
var plantsJSON []byte

// StaticSource serves the catalog compiled into the binary.
type StaticSource struct {
	data []byte
}

func NewStaticSource() *StaticSource {
	return &StaticSource{data: plantsJSON}
}

// NewStaticSourceFromJSON is used when the catalog comes from a JSON document other than the built-in one.
func NewStaticSourceFromJSON(data []byte) *StaticSource {
	return &StaticSource{data: data}
}

func (s *StaticSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(s.data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode static catalog: %w", err)
	}
	return products, nil
}
