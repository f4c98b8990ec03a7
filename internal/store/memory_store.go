package store

import (
	"fmt"
	"sync"

	"github.com/fjod/greenleaf/internal/domain"
)

// MemoryStore implements CartStore with a process-local map.
// All mutations hold mu for their whole duration, so they never interleave.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[int64]int // productID -> quantity, always in [1, domain.MaxQuantity]
	catalog *domain.Catalog
}

// NewMemoryStore creates an empty cart validated against catalog
func NewMemoryStore(catalog *domain.Catalog) *MemoryStore {
	return &MemoryStore{
		items:   make(map[int64]int),
		catalog: catalog,
	}
}

func (s *MemoryStore) AddToCart(productID int64) (int, error) {
	if !s.catalog.Contains(productID) {
		return 0, fmt.Errorf("add to cart: product %d: %w", productID, ErrProductNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[productID] >= domain.MaxQuantity {
		return s.items[productID], fmt.Errorf("add to cart: product %d: %w", productID, ErrQuantityLimit)
	}

	s.items[productID]++
	return s.items[productID], nil
}

func (s *MemoryStore) SetQuantity(productID int64, quantity int) (Outcome, error) {
	if !s.catalog.Contains(productID) {
		return Outcome{}, fmt.Errorf("set quantity: product %d: %w", productID, ErrProductNotFound)
	}

	if quantity > domain.MaxQuantity {
		return Outcome{}, fmt.Errorf("set quantity: product %d quantity %d: %w", productID, quantity, ErrQuantityLimit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		delete(s.items, productID)
		return Outcome{Kind: Removed}, nil
	}

	s.items[productID] = quantity
	return Outcome{Kind: Set, Quantity: quantity}, nil
}

func (s *MemoryStore) Snapshot() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Cart(s.items).Clone()
}

func (s *MemoryStore) Catalog() *domain.Catalog {
	return s.catalog
}
