package http

import (
	"net/http"
	"time"

	"github.com/fjod/greenleaf/internal/store"
	"github.com/fjod/greenleaf/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	Store    store.CartStore
	Renderer *view.Renderer
	Log      logrus.FieldLogger

	// AssetsDir is served under /images. Empty disables the route.
	AssetsDir      string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	pages := NewPageHandler(cfg.Store, cfg.Renderer, cfg.Log)
	cartHandler := NewCartHandler(cfg.Store, cfg.Log)
	productHandler := NewProductHandler(cfg.Store, cfg.Log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(cfg.Log))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	r.NotFound(pages.NotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, requestLog(cfg.Log, r), http.StatusOK, map[string]string{"status": "ok"})
	})

	// Pages
	r.Get("/", pages.Landing)
	r.Get("/products", pages.Listing)
	r.Get("/cart", pages.Cart)

	// Form intents
	r.Post("/cart/add", pages.AddToCart)
	r.Post("/cart/update", pages.UpdateQuantity)
	r.Post("/cart/checkout", pages.Checkout)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.Get)
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(view.Static()))))
	if cfg.AssetsDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.AssetsDir))))
	}

	return otelhttp.NewHandler(r, "greenleaf.http")
}
