package review

import "github.com/xenking/giftshop-storefront/internal/domain/catalog"

// Summary is the aggregated rating shown in the detail view header. It is
// seeded from the product document so the UI has a value before the review
// fetch resolves, then reconciled against each fetched page.
type Summary struct {
	Average float64
	Count   int
}

// Seed builds the initial summary from the product's embedded rating fields.
// Absent fields default to zero.
func Seed(p catalog.Product) Summary {
	var s Summary
	if p.AverageRating != nil {
		s.Average = *p.AverageRating
	}
	if p.RatingsCount != nil {
		s.Count = *p.RatingsCount
	}
	return s
}

// Merge reconciles the summary with a freshly fetched page. The two fields
// follow different fallback rules:
//   - AverageRating: a numeric value replaces the current one; an absent
//     value keeps the current one.
//   - RatingsCount: a numeric value (including an explicit 0) replaces the
//     current one; an absent value falls back to len(page.Items), NOT to
//     the current value.
func (s Summary) Merge(page Page) Summary {
	if page.AverageRating != nil {
		s.Average = *page.AverageRating
	}
	if page.RatingsCount != nil {
		s.Count = *page.RatingsCount
	} else {
		s.Count = len(page.Items)
	}
	return s
}
