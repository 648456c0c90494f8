package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/storefront"
)

// Catalog serves the filtered, sorted, paginated product grid.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	perPage := h.cfg.CatalogPerPage
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}

	view := storefront.NewCatalogView(h.products, perPage)
	q := r.URL.Query()
	view.SetSearch(q.Get("search"))
	if c := q.Get("category"); c != "" {
		view.SetCategory(c)
	}
	view.SetSort(catalog.ParseSortKey(q.Get("sort")))
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		view.SetPage(page)
	}

	if err := view.Load(r.Context()); err != nil {
		writeDomainError(w, r, err)
		return
	}

	page := view.Page()
	writeJSON(w, r, http.StatusOK, catalogResponse{
		Items:      h.toProductDTOs(page.Items),
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		Page:       view.State().Page,
		PerPage:    perPage,
		Categories: view.Categories(),
	})
}

// Home serves the homepage feed: popular products first, then regular ones.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	view := storefront.NewHomeView(h.backend, h.cfg.HomePopularCap, h.cfg.HomeTotalCap)
	feed, err := view.Load(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, homeResponse{Items: h.toProductDTOs(feed)})
}

// ProductDetail serves the detail view: the product with resolved images and
// WhatsApp enquiry link, plus its rating summary and first page of reviews.
// The summary is served even when the review fetch fails, seeded from the
// product document.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.findProduct(r, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	view := storefront.NewDetailView(h.backend, h.cfg.ReviewPageSize)
	view.Open(product)
	_ = view.LoadReviews(r.Context()) // summary falls back to the seed

	writeJSON(w, r, http.StatusOK, detailResponse{
		Product: h.toProductDTO(product),
		Summary: toSummaryDTO(view.Summary()),
		Reviews: toReviewDTOs(view.Reviews()),
	})
}

// SubmitReview validates and posts a review, then returns the refreshed
// review list and summary.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req submitReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.findProduct(r, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	view := storefront.NewDetailView(h.backend, h.cfg.ReviewPageSize)
	view.Open(product)
	view.SetDraft(req.Rating, req.CustomerName, req.Comment)
	if err := view.SubmitReview(r.Context()); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, submitReviewResponse{
		Summary: toSummaryDTO(view.Summary()),
		Reviews: toReviewDTOs(view.Reviews()),
	})
}

// findProduct resolves a product by ID from the cached set.
func (h *Handler) findProduct(r *http.Request, id string) (catalog.Product, error) {
	products, err := h.products.Products(r.Context())
	if err != nil {
		return catalog.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}
