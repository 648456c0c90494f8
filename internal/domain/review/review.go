// Package review holds the customer review model, submission validation and
// the rating-summary reconciliation rules of the product detail view.
package review

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// AnonymousName is shown for reviews submitted without a customer name.
const AnonymousName = "Anonymous Customer"

// Review is a single customer review. Reviews are immutable once created;
// the storefront never edits or deletes them.
type Review struct {
	ID           string    `json:"_id"`
	Rating       int       `json:"rating"` // 1..5
	Comment      string    `json:"comment,omitempty"`
	CustomerName string    `json:"customerName,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// DisplayName returns the customer name, or AnonymousName when blank.
func (r Review) DisplayName() string {
	if strings.TrimSpace(r.CustomerName) == "" {
		return AnonymousName
	}
	return r.CustomerName
}

// Page is one page of reviews as returned by the backend, newest first.
// AverageRating and RatingsCount are pointers: the backend may omit either,
// and the merge rules in summary.go treat absent and zero differently.
type Page struct {
	Items         []Review
	AverageRating *float64
	RatingsCount  *int
	Page          int
	Limit         int
	Total         int
}

// Submission validation errors.
var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrBlankSubmission  = errors.New("a name or comment is required")
)

// Submission is a review being composed by a customer.
type Submission struct {
	Rating       int
	CustomerName string
	Comment      string
}

// Validate enforces the client-side submission rules: the rating must be in
// [1,5] and at least one of name or comment must be non-blank after
// trimming. An invalid submission is rejected before any network call.
func (s Submission) Validate() error {
	if s.Rating < 1 || s.Rating > 5 {
		return ErrRatingOutOfRange
	}
	if strings.TrimSpace(s.CustomerName) == "" && strings.TrimSpace(s.Comment) == "" {
		return ErrBlankSubmission
	}
	return nil
}
