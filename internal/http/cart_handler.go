package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fjod/greenleaf/internal/domain"
	"github.com/fjod/greenleaf/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	store store.CartStore
	log   logrus.FieldLogger
}

func NewCartHandler(cartStore store.CartStore, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		store: cartStore,
		log:   log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalCost  int64              `json:"total_cost"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, requestLog(h.log, r), http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, requestLog(h.log, r), http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	quantity, err := h.store.AddToCart(req.ProductID)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	requestLog(h.log, r).WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"quantity":   quantity,
	}).Debug("item added to cart")

	h.respondCart(w, r, http.StatusCreated)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondError(w, requestLog(h.log, r), http.StatusBadRequest, "invalid_request", "body must contain an integer quantity")
		return
	}

	h.setQuantity(w, r, productID, *req.Quantity)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDFromPath(w, r)
	if !ok {
		return
	}

	h.setQuantity(w, r, productID, 0)
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request, productID int64, quantity int) {
	outcome, err := h.store.SetQuantity(productID, quantity)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	requestLog(h.log, r).WithFields(logrus.Fields{
		"product_id": productID,
		"outcome":    outcome.Kind.String(),
		"quantity":   outcome.Quantity,
	}).Debug("cart quantity set")

	h.respondCart(w, r, http.StatusOK)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, status int) {
	resp, err := newCartResponse(h.store.Snapshot(), h.store.Catalog())
	if err != nil {
		requestLog(h.log, r).WithError(err).Error("failed to build cart response")
		respondError(w, requestLog(h.log, r), http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, requestLog(h.log, r), status, resp)
}

func (h *CartHandler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, requestLog(h.log, r), http.StatusNotFound, "product_not_found", err.Error())
		return
	case errors.Is(err, store.ErrQuantityLimit):
		respondError(w, requestLog(h.log, r), http.StatusBadRequest, "invalid_quantity",
			fmt.Sprintf("quantity must be at most %d", domain.MaxQuantity))
		return
	}
	requestLog(h.log, r).WithError(err).Error("cart operation failed")
	respondError(w, requestLog(h.log, r), http.StatusInternalServerError, "internal_error", "internal server error")
}

func newCartResponse(cart domain.Cart, catalog *domain.Catalog) (*CartResponse, error) {
	total, err := domain.TotalCost(cart, catalog)
	if err != nil {
		return nil, err
	}
	totalItems, err := domain.TotalItems(cart)
	if err != nil {
		return nil, err
	}

	items := make([]CartItemResponse, 0, len(cart))
	for _, id := range cart.ProductIDs() {
		p, _ := catalog.Product(id)
		line, err := domain.LineTotal(p, cart[id])
		if err != nil {
			return nil, err
		}
		items = append(items, CartItemResponse{
			ProductID: id,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  cart[id],
			LineTotal: line,
		})
	}

	return &CartResponse{
		Items:      items,
		TotalItems: totalItems,
		TotalCost:  total,
	}, nil
}

func (h *CartHandler) productIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := parseProductID(chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, requestLog(h.log, r), http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func parseProductID(s string) (int64, error) {
	productID, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if productID <= 0 {
		return 0, errors.New("product_id must be positive")
	}
	return productID, nil
}
