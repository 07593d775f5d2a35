package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, httpclient.New(httpclient.DefaultConfig()), testLogger())
	return c, srv
}

const productsJSON = `[
	{"_id":"p1","name":"Milk","description":"1L","price":40,"quantity":12,"imgurl":"https://cdn.example.com/milk.jpg","category":"grocery"},
	{"_id":"p2","name":"Phone","description":"5G","price":12999,"quantity":3,"imgUrl":"https://cdn.example.com/phone.jpg","modelUrl":"phone.glb","category":"mobile"}
]`

func TestListAll(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		_, _ = w.Write([]byte(productsJSON))
	}))

	products, err := c.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "https://cdn.example.com/milk.jpg", products[0].ImgURLAlt)
	assert.True(t, products[1].HasModel())
}

func TestListByCategory(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/mobile", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	}))

	products, err := c.ListByCategory(context.Background(), "mobile")

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListByCategory_UnknownCategoryPassedVerbatim(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := c.ListByCategory(context.Background(), "holograms")

	require.NoError(t, err)
	assert.Equal(t, "/products/category/holograms", gotPath)
}

func TestListAll_NullBodyYieldsEmptySlice(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))

	products, err := c.ListAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestGetByID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p1", r.URL.Path)
		_, _ = w.Write([]byte(`{"_id":"p1","name":"Milk","price":40,"quantity":12}`))
	}))

	p, err := c.GetByID(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, float64(40), p.Price)
}

func TestGetByID_EmptyIDIsLocalFailure(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := c.GetByID(context.Background(), "  ")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Zero(t, calls.Load(), "empty id must not reach the network")
}

func TestGetByID_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such product"}}`))
	}))

	_, err := c.GetByID(context.Background(), "missing-id")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "milk shake", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(productsJSON))
	}))

	products, err := c.Search(context.Background(), "milk shake")

	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestSearch_BlankQuerySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	for _, q := range []string{"", "   ", "\t"} {
		products, err := c.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	}

	assert.Zero(t, calls.Load(), "blank search must never issue a request")
}

func TestListAll_ServerError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))

	_, err := c.ListAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestListAll_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewClient(srv.URL, httpclient.New(httpclient.DefaultConfig()), testLogger())

	products, err := c.ListAll(context.Background())

	require.Error(t, err)
	assert.Nil(t, products)
}
