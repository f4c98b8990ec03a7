package store

import (
	"errors"

	"github.com/fjod/greenleaf/internal/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound = errors.New("product not found")
	ErrQuantityLimit   = errors.New("quantity exceeds limit")
)

// OutcomeKind tags the effect SetQuantity had on a cart entry
type OutcomeKind int

const (
	// Removed means the entry is absent after the call
	Removed OutcomeKind = iota + 1
	// Set means the entry now holds exactly Outcome.Quantity
	Set
)

func (k OutcomeKind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Set:
		return "set"
	default:
		return "unknown"
	}
}

// Outcome is the result of SetQuantity. Quantity is only meaningful when Kind is Set.
type Outcome struct {
	Kind     OutcomeKind
	Quantity int
}

// CartStore defines the operations the storefront performs on the cart
type CartStore interface {
	// AddToCart adds one unit of the product and returns the new quantity.
	// A line already at domain.MaxQuantity is left unchanged and ErrQuantityLimit is returned
	AddToCart(productID int64) (int, error)

	// SetQuantity sets the quantity of the product.
	// A quantity <= 0 removes the entry instead of storing it; one above domain.MaxQuantity
	// is rejected with ErrQuantityLimit
	SetQuantity(productID int64, quantity int) (Outcome, error)

	// Snapshot returns a copy of the current cart
	Snapshot() domain.Cart

	// Catalog returns the catalog the cart is validated against
	Catalog() *domain.Catalog
}
