package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/xenking/giftshop-storefront/internal/session"
	"github.com/xenking/giftshop-storefront/internal/upstream"
)

// Login authenticates against the backend and stores the session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	token, user, err := h.backend.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.sessions.Save(token, user); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, loginResponse{Email: user.Email, Name: user.Name})
}

// Logout discards the stored session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adminToken returns the stored session token, or "" with a 401 written
// when there is no live session.
func (h *Handler) adminToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !session.Authenticated(h.sessions, h.now()) {
		writeError(w, r, http.StatusUnauthorized, "admin session required")
		return "", false
	}
	return h.sessions.Token(), true
}

// CreateProduct proxies product creation and refreshes the cache.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := h.adminToken(w, r)
	if !ok {
		return
	}

	var req productInputRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.backend.CreateProduct(r.Context(), token, toProductInput(req))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.products.Invalidate()

	writeJSON(w, r, http.StatusCreated, h.toProductDTO(*created))
}

// UpdateProduct proxies a product update and refreshes the cache.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := h.adminToken(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req productInputRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.backend.UpdateProduct(r.Context(), token, id, toProductInput(req))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.products.Invalidate()

	writeJSON(w, r, http.StatusOK, h.toProductDTO(*updated))
}

// DeleteProduct proxies a product deletion and refreshes the cache.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := h.adminToken(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.backend.DeleteProduct(r.Context(), token, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.products.Invalidate()

	w.WriteHeader(http.StatusNoContent)
}

// TogglePopular flips a product's popular flag and refreshes the cache.
func (h *Handler) TogglePopular(w http.ResponseWriter, r *http.Request) {
	token, ok := h.adminToken(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	updated, err := h.backend.TogglePopular(r.Context(), token, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.products.Invalidate()

	writeJSON(w, r, http.StatusOK, h.toProductDTO(*updated))
}

func toProductInput(req productInputRequest) upstream.ProductInput {
	in := upstream.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Features:    req.Features,
		ImageURLs:   req.ImageURLs,
		IsPopular:   req.IsPopular,
	}
	if req.Price != nil {
		d := decimal.NewFromFloat(*req.Price)
		in.Price = &d
	}
	return in
}
