// Package fakestore fetches the product catalog from a FakeStore-compatible
// JSON API.
package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fakestore-ingestor/internal/apperr"
)

// ProductDTO is the catalog's wire shape.
type ProductDTO struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *RatingDTO      `json:"rating"`
}

type RatingDTO struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Client struct {
	httpClient  *http.Client
	productsURL string
}

// New resolves endpoint against baseURL the way an HTTP client base address
// does: baseURL is treated as a directory even without a trailing slash.
func New(baseURL, endpoint string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		productsURL: base.ResolveReference(ref).String(),
	}, nil
}

// ProductsURL is the absolute address FetchProducts calls.
func (c *Client) ProductsURL() string { return c.productsURL }

// FetchProducts issues one GET and decodes the full catalog. Every failure
// is an apperr.KindFetch error.
func (c *Client) FetchProducts(ctx context.Context) ([]ProductDTO, error) {
	const op = "fakestore.FetchProducts"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productsURL, nil)
	if err != nil {
		return nil, apperr.Fetch("build request", err).WithOp(op)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Fetch("catalog request failed", err).WithOp(op)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Fetch(fmt.Sprintf("catalog returned status %d", resp.StatusCode), nil).WithOp(op)
	}

	var items []ProductDTO
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, apperr.Fetch("decode catalog", err).WithOp(op)
	}
	if items == nil {
		return nil, apperr.Fetch("catalog body was null", nil).WithOp(op)
	}
	return items, nil
}
