//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// fakeBackend is an in-memory rendition of the gift-shop REST backend.
type fakeBackend struct {
	mu       sync.Mutex
	router   *mux.Router
	products []fakeProduct
	reviews  map[string][]fakeReview
	nextID   int
	token    string
}

type fakeProduct struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	Description   string   `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Images        []string `json:"images,omitempty"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
	IsPopular     bool     `json:"isPopular,omitempty"`
	IsActive      bool     `json:"isActive"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	RatingsCount  *int     `json:"ratingsCount,omitempty"`
}

type fakeReview struct {
	ID           string `json:"_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

func fptr(f float64) *float64 { return &f }

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		reviews: make(map[string][]fakeReview),
		nextID:  100,
		token:   "fake-admin-token",
	}
	b.reset()

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/api/products", b.list).Methods(http.MethodGet)
	r.HandleFunc("/api/products", b.create).Methods(http.MethodPost)
	r.HandleFunc("/api/products/popular", b.popular).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", b.get).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", b.update).Methods(http.MethodPatch)
	r.HandleFunc("/api/products/{id}", b.delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/products/{id}/toggle-popular", b.togglePopular).Methods(http.MethodPatch)
	r.HandleFunc("/api/products/{id}/reviews", b.listReviews).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}/reviews", b.addReview).Methods(http.MethodPost)
	b.router = r
	return b
}

// reset restores the seed data. Tests that mutate the catalog call this.
func (b *fakeBackend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = []fakeProduct{
		{ID: "p1", Name: "Personalised Mug", Category: "Mugs", Price: fptr(12.99), ImageURL: "mug.jpg", IsActive: true, AverageRating: fptr(4.5), RatingsCount: iptr(2)},
		{ID: "p2", Name: "Photo Frame", Category: "Frames", Price: fptr(24.50), ImageURLs: []string{"frame1.jpg", "frame2.jpg"}, IsActive: true},
		{ID: "p3", Name: "Scented Candle", Category: "Candles", Price: fptr(8.00), IsPopular: true, IsActive: true},
		{ID: "p4", Name: "Gift Hamper", Category: "Hampers", Price: fptr(49.99), IsPopular: true, IsActive: true},
	}
	b.reviews = map[string][]fakeReview{
		"p1": {
			{ID: "r2", Rating: 4, Comment: "Good quality", CustomerName: "Bob", CreatedAt: time.Now().UTC().Format(time.RFC3339)},
			{ID: "r1", Rating: 5, Comment: "Lovely gift", CustomerName: "Alice", CreatedAt: time.Now().UTC().Format(time.RFC3339)},
		},
	}
}

func iptr(n int) *int { return &n }

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

func (b *fakeBackend) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) writeError(w http.ResponseWriter, status int, msg string) {
	b.writeJSON(w, status, map[string]string{"message": msg})
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Email != "admin@giftshop.test" || req.Password != "correct-horse" {
		b.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	b.writeJSON(w, http.StatusOK, map[string]any{
		"token": b.token,
		"user":  map[string]string{"email": req.Email, "name": "Shop Admin"},
	})
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	category := q.Get("category")
	search := strings.ToLower(q.Get("search"))

	var items []fakeProduct
	for _, p := range b.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		items = append(items, p)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	b.writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (b *fakeBackend) popular(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	var items []fakeProduct
	for _, p := range b.products {
		if p.IsPopular {
			items = append(items, p)
		}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	b.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (b *fakeBackend) get(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := mux.Vars(r)["id"]
	for _, p := range b.products {
		if p.ID == id {
			b.writeJSON(w, http.StatusOK, p)
			return
		}
	}
	b.writeError(w, http.StatusNotFound, "product not found")
}

func (b *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		b.writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var p fakeProduct
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		b.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.nextID++
	p.ID = fmt.Sprintf("p%d", b.nextID)
	p.IsActive = true
	b.products = append(b.products, p)
	b.writeJSON(w, http.StatusCreated, p)
}

func (b *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		b.writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := mux.Vars(r)["id"]
	var in fakeProduct
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		b.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	for i, p := range b.products {
		if p.ID == id {
			in.ID = id
			in.IsActive = p.IsActive
			b.products[i] = in
			b.writeJSON(w, http.StatusOK, in)
			return
		}
	}
	b.writeError(w, http.StatusNotFound, "product not found")
}

func (b *fakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		b.writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := mux.Vars(r)["id"]
	for i, p := range b.products {
		if p.ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	b.writeError(w, http.StatusNotFound, "product not found")
}

func (b *fakeBackend) togglePopular(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		b.writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := mux.Vars(r)["id"]
	for i := range b.products {
		if b.products[i].ID == id {
			b.products[i].IsPopular = !b.products[i].IsPopular
			b.writeJSON(w, http.StatusOK, b.products[i])
			return
		}
	}
	b.writeError(w, http.StatusNotFound, "product not found")
}

func (b *fakeBackend) listReviews(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := mux.Vars(r)["id"]
	items := b.reviews[id]
	if items == nil {
		items = []fakeReview{}
	}

	sum := 0
	for _, rv := range items {
		sum += rv.Rating
	}
	resp := map[string]any{"items": items, "ratingsCount": len(items)}
	if len(items) > 0 {
		resp["averageRating"] = float64(sum) / float64(len(items))
	}
	b.writeJSON(w, http.StatusOK, resp)
}

func (b *fakeBackend) addReview(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := mux.Vars(r)["id"]
	var in fakeReview
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		b.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		b.writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	b.nextID++
	in.ID = fmt.Sprintf("r%d", b.nextID)
	in.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	// Newest first, like the real backend.
	b.reviews[id] = append([]fakeReview{in}, b.reviews[id]...)
	b.writeJSON(w, http.StatusCreated, in)
}
