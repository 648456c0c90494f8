package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
)

// --- Helpers ---

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

// --- Submission validation ---

func TestSubmission_Valid(t *testing.T) {
	require.NoError(t, Submission{Rating: 5, Comment: "lovely"}.Validate())
	require.NoError(t, Submission{Rating: 1, CustomerName: "Ada"}.Validate())
}

func TestSubmission_RatingOutOfRange(t *testing.T) {
	assert.ErrorIs(t, Submission{Rating: 0, Comment: "x"}.Validate(), ErrRatingOutOfRange)
	assert.ErrorIs(t, Submission{Rating: 6, Comment: "x"}.Validate(), ErrRatingOutOfRange)
}

func TestSubmission_BlankNameAndComment(t *testing.T) {
	err := Submission{Rating: 4, CustomerName: "   ", Comment: "\t"}.Validate()
	assert.ErrorIs(t, err, ErrBlankSubmission)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", Review{CustomerName: "Ada"}.DisplayName())
	assert.Equal(t, AnonymousName, Review{CustomerName: "  "}.DisplayName())
	assert.Equal(t, AnonymousName, Review{}.DisplayName())
}

// --- Summary seeding ---

func TestSeed_FromProductFields(t *testing.T) {
	p := catalog.Product{AverageRating: f64(4.2), RatingsCount: intp(10)}
	assert.Equal(t, Summary{Average: 4.2, Count: 10}, Seed(p))
}

func TestSeed_AbsentFieldsDefaultToZero(t *testing.T) {
	assert.Equal(t, Summary{}, Seed(catalog.Product{}))
}

// --- Summary merging ---

func TestMerge_NumericValuesReplace(t *testing.T) {
	s := Summary{Average: 4.2, Count: 10}

	merged := s.Merge(Page{AverageRating: f64(3.8), RatingsCount: intp(12)})
	assert.Equal(t, Summary{Average: 3.8, Count: 12}, merged)
}

func TestMerge_AbsentAverageKeepsPrevious(t *testing.T) {
	s := Summary{Average: 4.2, Count: 10}

	merged := s.Merge(Page{Items: make([]Review, 3)})
	assert.Equal(t, 4.2, merged.Average)
}

func TestMerge_AbsentCountFallsBackToItemsLength(t *testing.T) {
	s := Summary{Average: 4.2, Count: 10}

	// Unlike the average, an absent count does NOT keep the previous value.
	merged := s.Merge(Page{Items: make([]Review, 3)})
	assert.Equal(t, 3, merged.Count)
}

func TestMerge_ExplicitZeroCountReplaces(t *testing.T) {
	s := Summary{Average: 4.2, Count: 10}

	merged := s.Merge(Page{RatingsCount: intp(0), Items: make([]Review, 3)})

	// The asymmetric rule: average kept, count overwritten by the explicit
	// zero rather than by len(items).
	assert.Equal(t, Summary{Average: 4.2, Count: 0}, merged)
}
