package handler

import (
	"time"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/gallery"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
)

type productDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Features      []string `json:"features,omitempty"`
	Images        []string `json:"images"`
	IsPopular     bool     `json:"isPopular"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	RatingsCount  *int     `json:"ratingsCount,omitempty"`
	WhatsAppURL   string   `json:"whatsappUrl"`
}

func (h *Handler) toProductDTO(p catalog.Product) productDTO {
	images := gallery.Resolve(p)
	if images == nil {
		images = []string{}
	}
	dto := productDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Features:      p.Features,
		Images:        images,
		IsPopular:     p.IsPopular,
		AverageRating: p.AverageRating,
		RatingsCount:  p.RatingsCount,
		WhatsAppURL:   catalog.WhatsAppLink(p, h.cfg.WhatsAppNumber),
	}
	if p.Price != nil {
		f := p.Price.InexactFloat64()
		dto.Price = &f
	}
	return dto
}

func (h *Handler) toProductDTOs(products []catalog.Product) []productDTO {
	out := make([]productDTO, len(products))
	for i, p := range products {
		out[i] = h.toProductDTO(p)
	}
	return out
}

type reviewDTO struct {
	ID           string `json:"id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CustomerName string `json:"customerName"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

func toReviewDTO(r review.Review) reviewDTO {
	dto := reviewDTO{
		ID:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CustomerName: r.DisplayName(),
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toReviewDTOs(reviews []review.Review) []reviewDTO {
	out := make([]reviewDTO, len(reviews))
	for i, r := range reviews {
		out[i] = toReviewDTO(r)
	}
	return out
}

type summaryDTO struct {
	AverageRating float64 `json:"averageRating"`
	RatingsCount  int     `json:"ratingsCount"`
}

func toSummaryDTO(s review.Summary) summaryDTO {
	return summaryDTO{AverageRating: s.Average, RatingsCount: s.Count}
}

type catalogResponse struct {
	Items      []productDTO `json:"items"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
	Page       int          `json:"page"`
	PerPage    int          `json:"perPage"`
	Categories []string     `json:"categories"`
}

type homeResponse struct {
	Items []productDTO `json:"items"`
}

type detailResponse struct {
	Product productDTO  `json:"product"`
	Summary summaryDTO  `json:"summary"`
	Reviews []reviewDTO `json:"reviews"`
}

type submitReviewRequest struct {
	Rating       int    `json:"rating"`
	CustomerName string `json:"customerName"`
	Comment      string `json:"comment"`
}

type submitReviewResponse struct {
	Summary summaryDTO  `json:"summary"`
	Reviews []reviewDTO `json:"reviews"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type productInputRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Features    []string `json:"features"`
	ImageURLs   []string `json:"imageUrls"`
	IsPopular   bool     `json:"isPopular"`
}
