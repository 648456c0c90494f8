package storefront

import (
	"context"
	"sync"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/gallery"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
)

// ReviewSource fetches and submits reviews. *upstream.Client satisfies it.
type ReviewSource interface {
	Reviews(ctx context.Context, productID string, page, limit int) (review.Page, error)
	SubmitReview(ctx context.Context, productID string, sub review.Submission) (review.Review, error)
}

// DetailView is the state of the product detail screen: the open product,
// its image gallery, the review list and the rating summary, plus the review
// draft the customer is composing.
type DetailView struct {
	reviews  ReviewSource
	pageSize int

	mu        sync.Mutex
	productID string
	product   catalog.Product
	gallery   *gallery.Gallery
	summary   review.Summary
	items     []review.Review
	loading   bool
	errMsg    string
	seq       uint64

	draftRating  int
	draftName    string
	draftComment string
}

// NewDetailView creates a detail view that loads review pages of the given
// size.
func NewDetailView(reviews ReviewSource, pageSize int) *DetailView {
	return &DetailView{reviews: reviews, pageSize: pageSize}
}

// Open switches the view to the given product: the gallery resets to the
// first image and the rating summary is seeded from the product document so
// a value shows before the review fetch resolves. Any in-flight fetch for a
// previously open product becomes stale and its result is discarded.
func (v *DetailView) Open(p catalog.Product) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.productID = p.ID
	v.product = p
	v.gallery = gallery.ForProduct(p)
	v.summary = review.Seed(p)
	v.items = nil
	v.errMsg = ""
	v.loading = false
	v.draftRating = 0
	v.draftComment = ""
	// The customer name is kept across products for convenience.
}

// LoadReviews fetches the first page of reviews for the open product and
// reconciles the summary. A response that arrives after the view switched
// to a different product is dropped without touching state.
func (v *DetailView) LoadReviews(ctx context.Context) error {
	v.mu.Lock()
	id := v.productID
	seq := v.seq
	pageSize := v.pageSize
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	page, err := v.reviews.Reviews(ctx, id, 1, pageSize)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq || id != v.productID {
		return nil // stale response for a previously open product
	}
	v.loading = false
	if err != nil {
		v.errMsg = err.Error()
		return err
	}
	v.summary = v.summary.Merge(page)
	v.items = page.Items
	return nil
}

// SetDraft updates the review the customer is composing.
func (v *DetailView) SetDraft(rating int, name, comment string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draftRating = rating
	v.draftName = name
	v.draftComment = comment
}

// Draft returns the current review draft.
func (v *DetailView) Draft() review.Submission {
	v.mu.Lock()
	defer v.mu.Unlock()
	return review.Submission{
		Rating:       v.draftRating,
		CustomerName: v.draftName,
		Comment:      v.draftComment,
	}
}

// SubmitReview validates the draft and posts it. An invalid draft is
// rejected before any network call. On success the comment field is cleared
// (the name is kept for the next review) and the review list is re-fetched;
// the refresh is issued only after the submission resolved, never
// concurrently. On failure the draft is left intact so the customer's
// typed text is not lost.
func (v *DetailView) SubmitReview(ctx context.Context) error {
	v.mu.Lock()
	id := v.productID
	seq := v.seq
	sub := review.Submission{
		Rating:       v.draftRating,
		CustomerName: v.draftName,
		Comment:      v.draftComment,
	}
	v.mu.Unlock()

	if err := sub.Validate(); err != nil {
		return err
	}

	if _, err := v.reviews.SubmitReview(ctx, id, sub); err != nil {
		v.mu.Lock()
		if seq == v.seq && id == v.productID {
			v.errMsg = err.Error()
		}
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	if seq == v.seq && id == v.productID {
		v.draftComment = ""
	}
	v.mu.Unlock()

	return v.LoadReviews(ctx)
}

// Product returns the open product.
func (v *DetailView) Product() catalog.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.product
}

// Gallery returns the image gallery for the open product, or nil when no
// product is open. Navigation calls on it are not synchronised with Open;
// the single UI goroutine drives both.
func (v *DetailView) Gallery() *gallery.Gallery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gallery
}

// Summary returns the reconciled rating summary.
func (v *DetailView) Summary() review.Summary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

// Reviews returns the loaded review list.
func (v *DetailView) Reviews() []review.Review {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

// Loading reports whether a review fetch is outstanding.
func (v *DetailView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the inline error message from the last failed operation.
func (v *DetailView) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}
