package view

import (
	"fmt"

	"github.com/fjod/greenleaf/internal/domain"
)

const ShopName = "GreenLeaf"

type Header struct {
	ShopName   string
	TotalItems int
}

type CategoryGroup struct {
	Name     string
	Products []domain.Product
}

type Landing struct {
	Header Header
}

type Listing struct {
	Header     Header
	Categories []CategoryGroup
}

type CartLine struct {
	Product   domain.Product
	Quantity  int
	LineTotal int64
	Decrement int // quantity submitted by the "-" control; 0 removes the line
	Increment int

	// CanIncrement is false once the line holds domain.MaxQuantity
	CanIncrement bool
}

type CartPage struct {
	Header    Header
	Lines     []CartLine
	TotalCost int64
	Empty     bool
}

// GroupByCategory partitions products by category. Categories keep the order in which they
// first appear and products keep their relative order within a category.
func GroupByCategory(products []domain.Product) []CategoryGroup {
	var groups []CategoryGroup
	position := make(map[string]int)

	for _, p := range products {
		i, ok := position[p.Category]
		if !ok {
			i = len(groups)
			position[p.Category] = i
			groups = append(groups, CategoryGroup{Name: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	return groups
}

func NewHeader(cart domain.Cart) (Header, error) {
	items, err := domain.TotalItems(cart)
	if err != nil {
		return Header{}, err
	}
	return Header{
		ShopName:   ShopName,
		TotalItems: items,
	}, nil
}

func NewLanding(cart domain.Cart) (Landing, error) {
	header, err := NewHeader(cart)
	if err != nil {
		return Landing{}, err
	}
	return Landing{Header: header}, nil
}

func NewListing(catalog *domain.Catalog, cart domain.Cart) (Listing, error) {
	header, err := NewHeader(cart)
	if err != nil {
		return Listing{}, err
	}
	return Listing{
		Header:     header,
		Categories: GroupByCategory(catalog.Products()),
	}, nil
}

// NewCartPage builds the cart page lines in ascending product id order.
func NewCartPage(cart domain.Cart, catalog *domain.Catalog) (CartPage, error) {
	total, err := domain.TotalCost(cart, catalog)
	if err != nil {
		return CartPage{}, err
	}
	header, err := NewHeader(cart)
	if err != nil {
		return CartPage{}, err
	}

	page := CartPage{
		Header:    header,
		Lines:     make([]CartLine, 0, len(cart)),
		TotalCost: total,
		Empty:     len(cart) == 0,
	}

	for _, id := range cart.ProductIDs() {
		p, ok := catalog.Product(id)
		if !ok {
			return CartPage{}, fmt.Errorf("cart page: product %d: %w", id, domain.ErrUnknownProduct)
		}
		qty := cart[id]
		line, err := domain.LineTotal(p, qty)
		if err != nil {
			return CartPage{}, fmt.Errorf("cart page: %w", err)
		}
		page.Lines = append(page.Lines, CartLine{
			Product:      p,
			Quantity:     qty,
			LineTotal:    line,
			Decrement:    qty - 1,
			Increment:    qty + 1,
			CanIncrement: qty < domain.MaxQuantity,
		})
	}

	return page, nil
}
