package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProductList(t *testing.T) {
	data := []byte(`{
		"items": [
			{
				"_id": "p1",
				"name": "Personalised Mug",
				"category": "Mugs",
				"price": 12.99,
				"description": "A mug",
				"features": ["dishwasher safe"],
				"imageUrls": ["https://cdn/p1-a.jpg", "https://cdn/p1-b.jpg"],
				"isPopular": true,
				"averageRating": 4.5,
				"ratingsCount": 12
			},
			{"_id": "p2", "name": "Frame", "imageUrl": "https://cdn/p2.jpg"}
		],
		"total": 2, "page": 1, "limit": 100
	}`)

	items, err := decodeProductList(data)
	require.NoError(t, err)
	require.Len(t, items, 2)

	p := items[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Personalised Mug", p.Name)
	assert.Equal(t, "Mugs", p.Category)
	require.NotNil(t, p.Price)
	assert.Equal(t, "12.99", p.Price.String())
	assert.Equal(t, []string{"dishwasher safe"}, p.Features)
	assert.Equal(t, []string{"https://cdn/p1-a.jpg", "https://cdn/p1-b.jpg"}, p.ImageURLs)
	assert.True(t, p.IsPopular)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.AverageRating)
	assert.Equal(t, 4.5, *p.AverageRating)
	require.NotNil(t, p.RatingsCount)
	assert.Equal(t, 12, *p.RatingsCount)

	assert.Equal(t, "https://cdn/p2.jpg", items[1].ImageURL)
	assert.Nil(t, items[1].Price)
	assert.Nil(t, items[1].AverageRating)
}

func TestDecodeProductList_MissingItemsIsEmpty(t *testing.T) {
	items, err := decodeProductList([]byte(`{"total": 0}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeProductList_NonArrayItemsIsEmpty(t *testing.T) {
	items, err := decodeProductList([]byte(`{"items": "oops"}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeProductList_NonObjectBodyIsEmpty(t *testing.T) {
	items, err := decodeProductList([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeProduct_ExplicitInactive(t *testing.T) {
	p, err := decodeProductBytes([]byte(`{"_id": "p1", "name": "X", "isActive": false}`))
	require.NoError(t, err)
	assert.False(t, p.IsActive)
}

func TestDecodeProduct_WrongTypedFieldsTreatedAsAbsent(t *testing.T) {
	p, err := decodeProductBytes([]byte(`{
		"_id": "p1", "name": "X",
		"price": "twelve",
		"averageRating": "high",
		"ratingsCount": null
	}`))
	require.NoError(t, err)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.AverageRating)
	assert.Nil(t, p.RatingsCount)
}

func TestDecodeReviewsPage(t *testing.T) {
	page, err := decodeReviewsPage([]byte(`{
		"items": [
			{"_id": "r1", "rating": 5, "comment": "Lovely", "customerName": "Ada", "createdAt": "2025-03-01T10:00:00Z"},
			{"_id": "r2", "rating": 3}
		],
		"averageRating": 4.0,
		"ratingsCount": 2,
		"page": 1, "limit": 10, "total": 2
	}`))
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "r1", page.Items[0].ID)
	assert.Equal(t, 5, page.Items[0].Rating)
	assert.Equal(t, "Ada", page.Items[0].CustomerName)
	assert.Equal(t, 2025, page.Items[0].CreatedAt.Year())

	require.NotNil(t, page.AverageRating)
	assert.Equal(t, 4.0, *page.AverageRating)
	require.NotNil(t, page.RatingsCount)
	assert.Equal(t, 2, *page.RatingsCount)
	assert.Equal(t, 2, page.Total)
}

func TestDecodeReviewsPage_AbsentSummaryFields(t *testing.T) {
	page, err := decodeReviewsPage([]byte(`{"items": [{"_id": "r1", "rating": 4}]}`))
	require.NoError(t, err)
	assert.Nil(t, page.AverageRating)
	assert.Nil(t, page.RatingsCount)
	assert.Len(t, page.Items, 1)
}

func TestDecodeReviewsPage_ExplicitZeroCount(t *testing.T) {
	page, err := decodeReviewsPage([]byte(`{"items": [], "ratingsCount": 0}`))
	require.NoError(t, err)
	require.NotNil(t, page.RatingsCount)
	assert.Equal(t, 0, *page.RatingsCount)
}
