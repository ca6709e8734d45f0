package fakestore_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/fakestore"
	"fakestore-ingestor/internal/fakestore/fakestoretest"
)

func TestNewResolvesEndpoint(t *testing.T) {
	cases := []struct{ base, endpoint, want string }{
		{"https://fakestoreapi.com/", "products", "https://fakestoreapi.com/products"},
		{"https://fakestoreapi.com", "products", "https://fakestoreapi.com/products"},
		{"http://host:8080/api", "v1/products", "http://host:8080/api/v1/products"},
		{"http://host/api/", "/products", "http://host/products"},
	}
	for _, tc := range cases {
		c, err := fakestore.New(tc.base, tc.endpoint, time.Second)
		require.NoError(t, err)
		require.Equal(t, tc.want, c.ProductsURL())
	}

	_, err := fakestore.New("products", "x", time.Second)
	require.Error(t, err)
}

func TestFetchProductsDecodesCatalog(t *testing.T) {
	srv := fakestoretest.NewServer(t, nil)
	srv.Raw(`[{"id":1,"title":"Fjallraven - Foldsack No. 1 Backpack","price":109.95,
		"description":"Your perfect pack","category":"men's clothing",
		"image":"https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		"rating":{"rate":3.9,"count":120}},
		{"id":2,"title":"No rating","price":0.1,"description":"","category":"x","image":""}]`)

	c, err := fakestore.New(srv.URL, "products", time.Second)
	require.NoError(t, err)

	items, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	require.Equal(t, 1, first.ID)
	require.Equal(t, "Fjallraven - Foldsack No. 1 Backpack", first.Title)
	require.True(t, first.Price.Equal(decimal.RequireFromString("109.95")), first.Price.String())
	require.Equal(t, "men's clothing", first.Category)
	require.NotNil(t, first.Rating)
	require.Equal(t, 3.9, first.Rating.Rate)
	require.Equal(t, 120, first.Rating.Count)

	require.Nil(t, items[1].Rating)
	require.Equal(t, "0.1", items[1].Price.String())
}

func TestFetchProductsFailures(t *testing.T) {
	srv := fakestoretest.NewServer(t, fakestoretest.Catalog(2))
	c, err := fakestore.New(srv.URL, "products", time.Second)
	require.NoError(t, err)

	srv.Fail(http.StatusServiceUnavailable)
	_, err = c.FetchProducts(context.Background())
	require.True(t, apperr.Is(err, apperr.KindFetch), "status: %v", err)

	srv.Raw(`{"not":"an array"}`)
	_, err = c.FetchProducts(context.Background())
	require.True(t, apperr.Is(err, apperr.KindFetch), "shape: %v", err)

	srv.Raw(`null`)
	_, err = c.FetchProducts(context.Background())
	require.True(t, apperr.Is(err, apperr.KindFetch), "null: %v", err)

	wrongPath, err := fakestore.New(srv.URL, "nothing-here", time.Second)
	require.NoError(t, err)
	_, err = wrongPath.FetchProducts(context.Background())
	require.True(t, apperr.Is(err, apperr.KindFetch), "404: %v", err)
}

func TestFetchProductsUnreachable(t *testing.T) {
	srv := fakestoretest.NewServer(t, nil)
	url := srv.URL
	srv.Close()

	c, err := fakestore.New(url, "products", time.Second)
	require.NoError(t, err)
	_, err = c.FetchProducts(context.Background())
	require.True(t, apperr.Is(err, apperr.KindFetch), err)
}

func TestFetchProductsEmptyCatalog(t *testing.T) {
	srv := fakestoretest.NewServer(t, nil)
	srv.Raw(`[]`)
	c, err := fakestore.New(srv.URL, "products", time.Second)
	require.NoError(t, err)

	items, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}
