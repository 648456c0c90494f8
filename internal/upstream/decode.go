package upstream

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
)

// The backend's response shapes drifted over time (legacy image fields,
// sometimes-missing summary numbers, occasional non-array items). Decoding is
// therefore tolerant by hand with jx rather than strict struct unmarshaling:
// unknown keys are skipped, wrong-typed fields are treated as absent, and a
// missing or non-array items field yields an empty list instead of an error.

// decodeProductList decodes a {items: [...]} payload.
func decodeProductList(data []byte) ([]catalog.Product, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return nil, nil
	}

	var items []catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		if d.Next() != jx.Array {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			items = append(items, p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode product list")
	}
	return items, nil
}

// decodeProductBytes decodes a single product document.
func decodeProductBytes(data []byte) (catalog.Product, error) {
	d := jx.DecodeBytes(data)
	p, err := decodeProduct(d)
	if err != nil {
		return catalog.Product{}, errors.Wrap(err, "decode product")
	}
	return p, nil
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	// Products are active unless the backend says otherwise.
	p := catalog.Product{IsActive: true}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "_id":
			return decodeString(d, &p.ID)
		case "name":
			return decodeString(d, &p.Name)
		case "category":
			return decodeString(d, &p.Category)
		case "description":
			return decodeString(d, &p.Description)
		case "imageUrl":
			return decodeString(d, &p.ImageURL)
		case "images":
			return decodeStringList(d, &p.Images)
		case "imageUrls":
			return decodeStringList(d, &p.ImageURLs)
		case "features":
			return decodeStringList(d, &p.Features)
		case "isPopular":
			return decodeBool(d, &p.IsPopular)
		case "isActive":
			return decodeBool(d, &p.IsActive)
		case "price":
			return decodePrice(d, &p.Price)
		case "averageRating":
			return decodeFloat(d, &p.AverageRating)
		case "ratingsCount":
			return decodeInt(d, &p.RatingsCount)
		default:
			return d.Skip()
		}
	})
	return p, err
}

// decodeReviewsPage decodes a reviews listing payload.
func decodeReviewsPage(data []byte) (review.Page, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return review.Page{}, nil
	}

	var page review.Page
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			if d.Next() != jx.Array {
				return d.Skip()
			}
			return d.Arr(func(d *jx.Decoder) error {
				r, err := decodeReview(d)
				if err != nil {
					return err
				}
				page.Items = append(page.Items, r)
				return nil
			})
		case "averageRating":
			return decodeFloat(d, &page.AverageRating)
		case "ratingsCount":
			return decodeInt(d, &page.RatingsCount)
		case "page":
			return decodeIntValue(d, &page.Page)
		case "limit":
			return decodeIntValue(d, &page.Limit)
		case "total":
			return decodeIntValue(d, &page.Total)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return review.Page{}, errors.Wrap(err, "decode reviews page")
	}
	return page, nil
}

// decodeReviewBytes decodes a single review document.
func decodeReviewBytes(data []byte) (review.Review, error) {
	d := jx.DecodeBytes(data)
	r, err := decodeReview(d)
	if err != nil {
		return review.Review{}, errors.Wrap(err, "decode review")
	}
	return r, nil
}

func decodeReview(d *jx.Decoder) (review.Review, error) {
	var r review.Review
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "_id":
			return decodeString(d, &r.ID)
		case "comment":
			return decodeString(d, &r.Comment)
		case "customerName":
			return decodeString(d, &r.CustomerName)
		case "rating":
			var rating *int
			if err := decodeInt(d, &rating); err != nil {
				return err
			}
			if rating != nil {
				r.Rating = *rating
			}
			return nil
		case "createdAt":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			// Best effort: an unparseable timestamp stays zero.
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				r.CreatedAt = ts
			}
			return nil
		default:
			return d.Skip()
		}
	})
	return r, err
}

// --- Field helpers ---

func decodeString(d *jx.Decoder, dst *string) error {
	if d.Next() != jx.String {
		return d.Skip()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func decodeBool(d *jx.Decoder, dst *bool) error {
	if d.Next() != jx.Bool {
		return d.Skip()
	}
	b, err := d.Bool()
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func decodeStringList(d *jx.Decoder, dst *[]string) error {
	if d.Next() != jx.Array {
		return d.Skip()
	}
	return d.Arr(func(d *jx.Decoder) error {
		if d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		*dst = append(*dst, s)
		return nil
	})
}

func decodePrice(d *jx.Decoder, dst **decimal.Decimal) error {
	if d.Next() != jx.Number {
		return d.Skip()
	}
	n, err := d.Num()
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(n.String())
	if err != nil {
		return errors.Wrap(err, "parse price")
	}
	*dst = &price
	return nil
}

func decodeFloat(d *jx.Decoder, dst **float64) error {
	if d.Next() != jx.Number {
		return d.Skip()
	}
	f, err := d.Float64()
	if err != nil {
		return err
	}
	*dst = &f
	return nil
}

func decodeInt(d *jx.Decoder, dst **int) error {
	if d.Next() != jx.Number {
		return d.Skip()
	}
	n, err := d.Int()
	if err != nil {
		return err
	}
	*dst = &n
	return nil
}

func decodeIntValue(d *jx.Decoder, dst *int) error {
	if d.Next() != jx.Number {
		return d.Skip()
	}
	n, err := d.Int()
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
