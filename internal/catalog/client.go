// Package catalog implements the read-side client for the remote catalog
// service: full listing, listing by category, single-product lookup, and
// free-text search. Every call is a single independent request with no
// retries, caching, or pagination.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

const serviceName = "catalog"

// Doer issues a single HTTP request. Satisfied by both httpclient.Client and
// httpclient.CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is the catalog service client.
type Client struct {
	baseURL string
	http    Doer
	logger  *slog.Logger
}

// NewClient creates a catalog client against the given base URL.
func NewClient(baseURL string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// ListAll retrieves the full product catalog.
func (c *Client) ListAll(ctx context.Context) ([]domain.Product, error) {
	return c.getProducts(ctx, c.baseURL+"/products")
}

// ListByCategory retrieves the products tagged with the given category.
// Unknown categories are passed through verbatim; the service answers them
// with an empty list, which is not an error.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return c.getProducts(ctx, c.baseURL+"/products/category/"+url.PathEscape(category))
}

// GetByID retrieves a single product. A missing id is rejected locally; a
// missing record is a NotFound error, never an empty result.
func (c *Client) GetByID(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, apperrors.InvalidInput("product id is required")
	}

	resp, err := c.get(ctx, c.baseURL+"/products/"+url.PathEscape(id))
	if err != nil {
		return domain.Product{}, err
	}
	defer resp.Body.Close()

	var p domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return p, nil
}

// Search retrieves the products matching a free-text query. A blank query
// short-circuits to an empty result without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Product{}, nil
	}
	return c.getProducts(ctx, c.baseURL+"/search?q="+url.QueryEscape(query))
}

func (c *Client) getProducts(ctx context.Context, u string) ([]domain.Product, error) {
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "catalog request failed",
			slog.String("url", u),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("catalog request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	return resp, nil
}
