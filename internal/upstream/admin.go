package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/session"
)

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Login authenticates an admin and returns the bearer token plus the user
// object. When the backend omits the user, one is synthesised from the email,
// matching the original storefront behaviour.
func (c *Client) Login(ctx context.Context, email, password string) (string, session.User, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
			return "", session.User{}, ErrInvalidCredentials
		}
		return "", session.User{}, errors.Wrap(err, "login")
	}

	var resp struct {
		Token string        `json:"token"`
		User  *session.User `json:"user"`
	}
	if err := unmarshalJSON(body, &resp); err != nil {
		return "", session.User{}, err
	}
	if resp.Token == "" {
		return "", session.User{}, errors.New("login response missing token")
	}

	user := session.User{Email: email}
	if resp.User != nil {
		user = *resp.User
	}
	return resp.Token, user, nil
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Features    []string         `json:"features,omitempty"`
	ImageURLs   []string         `json:"imageUrls,omitempty"`
	IsPopular   bool             `json:"isPopular"`
}

// MarshalJSON writes the price as a JSON number. decimal.Decimal marshals to
// a quoted string by default, which the backend's numeric price field
// rejects.
func (in ProductInput) MarshalJSON() ([]byte, error) {
	type plain ProductInput
	aux := struct {
		plain
		Price json.Number `json:"price,omitempty"`
	}{plain: plain(in)}
	if in.Price != nil {
		aux.Price = json.Number(in.Price.String())
	}
	return json.Marshal(aux)
}

// CreateProduct creates a product (admin only).
func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*catalog.Product, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/api/products", token, in)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	p, err := decodeProductBytes(body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct updates an existing product (admin only).
func (c *Client) UpdateProduct(ctx context.Context, token, id string, in ProductInput) (*catalog.Product, error) {
	body, err := c.doJSON(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(id), token, in)
	if err != nil {
		return nil, errors.Wrapf(err, "update product %q", id)
	}
	p, err := decodeProductBytes(body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product (admin only).
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, token, nil)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	return nil
}

// TogglePopular flips a product's promotional flag (admin only).
func (c *Client) TogglePopular(ctx context.Context, token, id string) (*catalog.Product, error) {
	body, err := c.do(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(id)+"/toggle-popular", nil, token, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "toggle popular for %q", id)
	}
	p, err := decodeProductBytes(body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
