package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
)

// --- Mocks ---

type mockReviewSource struct {
	mu sync.Mutex

	pages     map[string]review.Page
	pagesErr  error
	submitted []review.Submission
	submitErr error

	// blockFor holds the product IDs whose Reviews call waits on release.
	blockFor map[string]bool
	release  chan struct{}
	inFlight chan string
}

func (m *mockReviewSource) Reviews(ctx context.Context, productID string, page, limit int) (review.Page, error) {
	m.mu.Lock()
	blocked := m.blockFor[productID]
	m.mu.Unlock()

	if blocked {
		if m.inFlight != nil {
			m.inFlight <- productID
		}
		select {
		case <-m.release:
		case <-ctx.Done():
			return review.Page{}, ctx.Err()
		}
	}
	if m.pagesErr != nil {
		return review.Page{}, m.pagesErr
	}
	return m.pages[productID], nil
}

func (m *mockReviewSource) SubmitReview(ctx context.Context, productID string, sub review.Submission) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return review.Review{}, m.submitErr
	}
	m.submitted = append(m.submitted, sub)
	return review.Review{ID: "r-new", Rating: sub.Rating, Comment: sub.Comment}, nil
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

// --- Tests ---

func TestDetailView_OpenSeedsSummaryAndGallery(t *testing.T) {
	v := NewDetailView(&mockReviewSource{}, 10)

	v.Open(catalog.Product{
		ID:            "p1",
		Name:          "Personalised Mug",
		ImageURL:      "mug.jpg",
		AverageRating: floatPtr(4.5),
		RatingsCount:  intPtr(12),
	})

	assert.Equal(t, review.Summary{Average: 4.5, Count: 12}, v.Summary())
	require.NotNil(t, v.Gallery())
	assert.Equal(t, []string{"mug.jpg"}, v.Gallery().Images())
	assert.Empty(t, v.Reviews())
}

func TestDetailView_LoadReviewsMergesSummary(t *testing.T) {
	source := &mockReviewSource{pages: map[string]review.Page{
		"p1": {
			Items:         []review.Review{{ID: "r1", Rating: 5}, {ID: "r2", Rating: 4}},
			AverageRating: floatPtr(4.5),
			RatingsCount:  intPtr(40),
		},
	}}
	v := NewDetailView(source, 10)
	v.Open(catalog.Product{ID: "p1", AverageRating: floatPtr(3.0), RatingsCount: intPtr(2)})

	require.NoError(t, v.LoadReviews(context.Background()))

	assert.Equal(t, review.Summary{Average: 4.5, Count: 40}, v.Summary())
	assert.Len(t, v.Reviews(), 2)
	assert.False(t, v.Loading())
}

func TestDetailView_LoadReviewsErrorKeepsSeededSummary(t *testing.T) {
	source := &mockReviewSource{pagesErr: errors.New("reviews unavailable")}
	v := NewDetailView(source, 10)
	v.Open(catalog.Product{ID: "p1", AverageRating: floatPtr(4.0), RatingsCount: intPtr(7)})

	err := v.LoadReviews(context.Background())
	require.Error(t, err)

	assert.Equal(t, "reviews unavailable", v.Err())
	assert.Equal(t, review.Summary{Average: 4.0, Count: 7}, v.Summary())
}

func TestDetailView_StaleResponseForPreviousProductIsDropped(t *testing.T) {
	source := &mockReviewSource{
		pages: map[string]review.Page{
			"a": {Items: []review.Review{{ID: "ra", Rating: 1}}, AverageRating: floatPtr(1.0), RatingsCount: intPtr(99)},
			"b": {Items: []review.Review{{ID: "rb", Rating: 5}}, AverageRating: floatPtr(5.0), RatingsCount: intPtr(3)},
		},
		blockFor: map[string]bool{"a": true},
		release:  make(chan struct{}),
		inFlight: make(chan string, 1),
	}
	v := NewDetailView(source, 10)

	// Open A and start its fetch; it parks inside the source.
	v.Open(catalog.Product{ID: "a"})
	done := make(chan error, 1)
	go func() { done <- v.LoadReviews(context.Background()) }()
	require.Equal(t, "a", <-source.inFlight)

	// Switch to B before A's fetch resolves and load B's reviews.
	v.Open(catalog.Product{ID: "b"})
	require.NoError(t, v.LoadReviews(context.Background()))

	// Let A's fetch resolve. Its result must not leak into B's view.
	close(source.release)
	require.NoError(t, <-done)

	require.Len(t, v.Reviews(), 1)
	assert.Equal(t, "rb", v.Reviews()[0].ID)
	assert.Equal(t, review.Summary{Average: 5.0, Count: 3}, v.Summary())
}

func TestDetailView_SubmitReview(t *testing.T) {
	source := &mockReviewSource{pages: map[string]review.Page{
		"p1": {Items: []review.Review{{ID: "r-new", Rating: 5}}, AverageRating: floatPtr(5.0), RatingsCount: intPtr(1)},
	}}
	v := NewDetailView(source, 10)
	v.Open(catalog.Product{ID: "p1"})
	v.SetDraft(5, "Alice", "Lovely mug")

	require.NoError(t, v.SubmitReview(context.Background()))

	require.Len(t, source.submitted, 1)
	assert.Equal(t, review.Submission{Rating: 5, CustomerName: "Alice", Comment: "Lovely mug"}, source.submitted[0])

	// On success the comment clears, the name is kept and the list refreshed.
	draft := v.Draft()
	assert.Empty(t, draft.Comment)
	assert.Equal(t, "Alice", draft.CustomerName)
	assert.Len(t, v.Reviews(), 1)
}

func TestDetailView_SubmitReviewInvalidDraftNeverHitsNetwork(t *testing.T) {
	source := &mockReviewSource{}
	v := NewDetailView(source, 10)
	v.Open(catalog.Product{ID: "p1"})

	v.SetDraft(0, "", "")
	assert.ErrorIs(t, v.SubmitReview(context.Background()), review.ErrRatingOutOfRange)

	v.SetDraft(6, "", "hi")
	assert.ErrorIs(t, v.SubmitReview(context.Background()), review.ErrRatingOutOfRange)

	v.SetDraft(3, "", "")
	assert.ErrorIs(t, v.SubmitReview(context.Background()), review.ErrBlankSubmission)

	assert.Empty(t, source.submitted)
}

func TestDetailView_SubmitReviewFailureKeepsDraft(t *testing.T) {
	source := &mockReviewSource{submitErr: errors.New("backend down")}
	v := NewDetailView(source, 10)
	v.Open(catalog.Product{ID: "p1"})
	v.SetDraft(4, "Bob", "Nice frame")

	require.Error(t, v.SubmitReview(context.Background()))

	assert.Equal(t, "backend down", v.Err())
	draft := v.Draft()
	assert.Equal(t, 4, draft.Rating)
	assert.Equal(t, "Bob", draft.CustomerName)
	assert.Equal(t, "Nice frame", draft.Comment)
}

func TestDetailView_OpenKeepsCustomerName(t *testing.T) {
	v := NewDetailView(&mockReviewSource{}, 10)
	v.Open(catalog.Product{ID: "p1"})
	v.SetDraft(3, "Carol", "draft text")

	v.Open(catalog.Product{ID: "p2"})

	draft := v.Draft()
	assert.Zero(t, draft.Rating)
	assert.Equal(t, "Carol", draft.CustomerName)
	assert.Empty(t, draft.Comment)
}

func TestDetailView_LoadingFlag(t *testing.T) {
	source := &mockReviewSource{
		pages:    map[string]review.Page{"p1": {}},
		blockFor: map[string]bool{"p1": true},
		release:  make(chan struct{}),
		inFlight: make(chan string, 1),
	}
	v := NewDetailView(source, 10)
	v.Open(catalog.Product{ID: "p1"})

	done := make(chan error, 1)
	go func() { done <- v.LoadReviews(context.Background()) }()
	<-source.inFlight
	assert.True(t, v.Loading())

	close(source.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}
	assert.False(t, v.Loading())
}
