package http

import (
	"net/http"

	"github.com/fjod/greenleaf/internal/domain"
	"github.com/fjod/greenleaf/internal/store"
	"github.com/fjod/greenleaf/internal/view"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	store store.CartStore
	log   logrus.FieldLogger
}

func NewProductHandler(cartStore store.CartStore, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		store: cartStore,
		log:   log,
	}
}

type CategoryResponse struct {
	Name     string           `json:"name"`
	Products []domain.Product `json:"products"`
}

type ProductsResponse struct {
	Products   []domain.Product   `json:"products"`
	Categories []CategoryResponse `json:"categories"`
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	products := h.store.Catalog().Products()
	groups := view.GroupByCategory(products)

	categories := make([]CategoryResponse, len(groups))
	for i, g := range groups {
		categories[i] = CategoryResponse{Name: g.Name, Products: g.Products}
	}

	respondJSON(w, requestLog(h.log, r), http.StatusOK, &ProductsResponse{
		Products:   products,
		Categories: categories,
	})
}
