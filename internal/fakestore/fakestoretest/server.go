// Package fakestoretest serves canned catalogs for tests.
package fakestoretest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"fakestore-ingestor/internal/fakestore"
)

// Server is an httptest server answering GET /products with the current
// catalog. The catalog can be swapped between calls.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	items   []fakestore.ProductDTO
	status  int
	rawBody string
	hits    atomic.Int64
}

func NewServer(t *testing.T, items []fakestore.ProductDTO) *Server {
	t.Helper()
	s := &Server{items: items, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Set replaces the catalog.
func (s *Server) Set(items []fakestore.ProductDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items, s.status, s.rawBody = items, http.StatusOK, ""
}

// Fail makes the next responses use status with an empty body.
func (s *Server) Fail(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Raw makes the next responses return body verbatim with a 200.
func (s *Server) Raw(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.rawBody = http.StatusOK, body
}

// Hits counts requests served so far.
func (s *Server) Hits() int64 { return s.hits.Load() }

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	if r.Method != http.MethodGet || r.URL.Path != "/products" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	status, raw, items := s.status, s.rawBody, s.items
	s.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if raw != "" {
		_, _ = w.Write([]byte(raw))
		return
	}
	_ = json.NewEncoder(w).Encode(wire(items))
}

// wire renders prices as bare JSON numbers regardless of decimal's global
// marshal setting.
func wire(items []fakestore.ProductDTO) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		m := map[string]any{
			"id":          it.ID,
			"title":       it.Title,
			"price":       json.Number(it.Price.String()),
			"description": it.Description,
			"category":    it.Category,
			"image":       it.Image,
		}
		if it.Rating != nil {
			m["rating"] = map[string]any{"rate": it.Rating.Rate, "count": it.Rating.Count}
		}
		out = append(out, m)
	}
	return out
}

// Catalog returns n deterministic products with ids 1..n.
func Catalog(n int) []fakestore.ProductDTO {
	out := make([]fakestore.ProductDTO, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fakestore.ProductDTO{
			ID:          i,
			Title:       fmt.Sprintf("Product %d", i),
			Price:       decimal.New(int64(1000*i+95), -2),
			Description: fmt.Sprintf("Description of product %d", i),
			Category:    "electronics",
			Image:       fmt.Sprintf("https://fakestoreapi.com/img/%d.jpg", i),
			Rating:      &fakestore.RatingDTO{Rate: 3.5 + float64(i%3)*0.5, Count: 100 + i},
		})
	}
	return out
}
