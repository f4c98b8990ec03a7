package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fjod/greenleaf/internal/domain"
	"github.com/fjod/greenleaf/internal/store"
	"github.com/fjod/greenleaf/internal/view"
	"github.com/sirupsen/logrus"
)

// PageHandler serves the three storefront views and the form intents that mutate the cart.
// Intents answer with 303 See Other so a browser refresh never repeats them.
type PageHandler struct {
	store    store.CartStore
	renderer *view.Renderer
	log      logrus.FieldLogger
}

func NewPageHandler(cartStore store.CartStore, renderer *view.Renderer, log logrus.FieldLogger) *PageHandler {
	return &PageHandler{
		store:    cartStore,
		renderer: renderer,
		log:      log,
	}
}

func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, func(out io.Writer) error {
		landing, err := view.NewLanding(h.store.Snapshot())
		if err != nil {
			return err
		}
		return h.renderer.Landing(out, landing)
	})
}

func (h *PageHandler) Listing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, func(out io.Writer) error {
		listing, err := view.NewListing(h.store.Catalog(), h.store.Snapshot())
		if err != nil {
			return err
		}
		return h.renderer.Listing(out, listing)
	})
}

func (h *PageHandler) Cart(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, func(out io.Writer) error {
		page, err := view.NewCartPage(h.store.Snapshot(), h.store.Catalog())
		if err != nil {
			return err
		}
		return h.renderer.Cart(out, page)
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, func(out io.Writer) error {
		landing, err := view.NewLanding(h.store.Snapshot())
		if err != nil {
			return err
		}
		return h.renderer.NotFound(out, landing)
	})
}

func (h *PageHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r.PostFormValue("product_id"))
	if err != nil {
		http.Error(w, "product_id must be a positive integer", http.StatusBadRequest)
		return
	}

	quantity, err := h.store.AddToCart(productID)
	if err != nil {
		h.intentFailed(w, r, err)
		return
	}

	requestLog(h.log, r).WithFields(logrus.Fields{
		"product_id": productID,
		"quantity":   quantity,
	}).Debug("item added to cart")

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *PageHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r.PostFormValue("product_id"))
	if err != nil {
		http.Error(w, "product_id must be a positive integer", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		http.Error(w, "quantity must be an integer", http.StatusBadRequest)
		return
	}

	outcome, err := h.store.SetQuantity(productID, quantity)
	if err != nil {
		h.intentFailed(w, r, err)
		return
	}

	requestLog(h.log, r).WithFields(logrus.Fields{
		"product_id": productID,
		"outcome":    outcome.Kind.String(),
		"quantity":   outcome.Quantity,
	}).Debug("cart quantity set")

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout has no effect on the cart.
func (h *PageHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	entry := requestLog(h.log, r)
	if items, err := domain.TotalItems(h.store.Snapshot()); err != nil {
		entry = entry.WithError(err)
	} else {
		entry = entry.WithField("total_items", items)
	}
	entry.Info("checkout requested")

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *PageHandler) intentFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, store.ErrQuantityLimit):
		http.Error(w, fmt.Sprintf("quantity must be at most %d", domain.MaxQuantity), http.StatusBadRequest)
		return
	}
	requestLog(h.log, r).WithError(err).Error("cart intent failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// render writes nothing until the page has rendered completely, so a failure can still answer 500.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		requestLog(h.log, r).WithError(err).Error("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		requestLog(h.log, r).WithError(err).Debug("failed to write page")
	}
}
