package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MaxQuantity is the largest quantity a single cart line may hold.
const MaxQuantity = 99

var (
	ErrUnknownProduct  = errors.New("product not in catalog")
	ErrInvalidQuantity = errors.New("quantity out of range")
	ErrTotalOverflow   = errors.New("cart total overflows")
)

// Cart maps product id to requested quantity. A present key always has quantity >= 1.
type Cart map[int64]int

// ProductIDs returns the cart keys in ascending order.
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// TotalItems is the sum of all quantities in the cart.
func TotalItems(cart Cart) (int, error) {
	total := 0
	for id, qty := range cart {
		if qty < 1 || qty > MaxQuantity {
			return 0, fmt.Errorf("total items: product %d quantity %d: %w", id, qty, ErrInvalidQuantity)
		}
		if total > math.MaxInt-qty {
			return 0, fmt.Errorf("total items: %w", ErrTotalOverflow)
		}
		total += qty
	}
	return total, nil
}

// TotalCost is the sum of price * quantity over the cart. Every key must resolve in catalog;
// a key that does not is reported as ErrUnknownProduct rather than priced at zero.
func TotalCost(cart Cart, catalog *Catalog) (int64, error) {
	var total int64
	for id, qty := range cart {
		p, ok := catalog.Product(id)
		if !ok {
			return 0, fmt.Errorf("total cost: product %d: %w", id, ErrUnknownProduct)
		}
		line, err := LineTotal(p, qty)
		if err != nil {
			return 0, fmt.Errorf("total cost: %w", err)
		}
		if total > math.MaxInt64-line {
			return 0, fmt.Errorf("total cost: %w", ErrTotalOverflow)
		}
		total += line
	}
	return total, nil
}

// LineTotal is price * quantity for one cart line.
func LineTotal(p Product, quantity int) (int64, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return 0, fmt.Errorf("product %d quantity %d: %w", p.ID, quantity, ErrInvalidQuantity)
	}
	if p.Price > math.MaxInt64/int64(quantity) {
		return 0, fmt.Errorf("product %d: %w", p.ID, ErrTotalOverflow)
	}
	return p.Price * int64(quantity), nil
}
