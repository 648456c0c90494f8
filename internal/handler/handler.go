// Package handler exposes the storefront views and the admin proxy over
// HTTP. Read endpoints compute a fresh view per request from the shared
// product cache; mutating admin endpoints forward to the backend with the
// stored session token and invalidate the cache on success.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
	"github.com/xenking/giftshop-storefront/internal/session"
	"github.com/xenking/giftshop-storefront/internal/upstream"
)

// ProductSource is the cached product set behind the catalog and detail
// endpoints. *upstream.ProductCache satisfies it.
type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	Invalidate()
}

// Backend is the slice of the upstream client the handler depends on.
type Backend interface {
	Products(ctx context.Context, opts upstream.ListOptions) ([]catalog.Product, error)
	PopularProducts(ctx context.Context, limit int) ([]catalog.Product, error)
	Reviews(ctx context.Context, productID string, page, limit int) (review.Page, error)
	SubmitReview(ctx context.Context, productID string, sub review.Submission) (review.Review, error)
	Login(ctx context.Context, email, password string) (string, session.User, error)
	CreateProduct(ctx context.Context, token string, in upstream.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, token, id string, in upstream.ProductInput) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	TogglePopular(ctx context.Context, token, id string) (*catalog.Product, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// WhatsAppNumber receives the "I'm interested" enquiry deep links.
	WhatsAppNumber string
	// CatalogPerPage is the catalog grid page size.
	CatalogPerPage int
	// ReviewPageSize is how many reviews the detail view fetches.
	ReviewPageSize int
	// HomePopularCap and HomeTotalCap bound the homepage feed.
	HomePopularCap int
	HomeTotalCap   int
}

// Handler serves the storefront and admin routes.
type Handler struct {
	cfg      Config
	products ProductSource
	backend  Backend
	sessions session.Store
	now      func() time.Time
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(cfg Config, products ProductSource, backend Backend, sessions session.Store) *Handler {
	if cfg.WhatsAppNumber == "" {
		cfg.WhatsAppNumber = catalog.DefaultWhatsAppNumber
	}
	if cfg.CatalogPerPage <= 0 {
		cfg.CatalogPerPage = 20
	}
	if cfg.ReviewPageSize <= 0 {
		cfg.ReviewPageSize = 10
	}
	return &Handler{
		cfg:      cfg,
		products: products,
		backend:  backend,
		sessions: sessions,
		now:      time.Now,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/storefront/catalog", h.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/storefront/home", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/storefront/products/{id}", h.ProductDetail).Methods(http.MethodGet)
	r.HandleFunc("/storefront/products/{id}/reviews", h.SubmitReview).Methods(http.MethodPost)

	r.HandleFunc("/admin/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/admin/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/admin/products", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/admin/products/{id}", h.UpdateProduct).Methods(http.MethodPatch)
	r.HandleFunc("/admin/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/admin/products/{id}/toggle-popular", h.TogglePopular).Methods(http.MethodPatch)
}
