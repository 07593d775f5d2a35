// Package cart implements the write-side client for the remote cart
// service. A cart mutation attaches a unit-quantity product snapshot to the
// anonymous cart session and requires an authenticated bearer token.
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

const serviceName = "cart"

// Doer issues a single HTTP request.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is the cart service client.
type Client struct {
	baseURL string
	http    Doer
	logger  *slog.Logger
}

// NewClient creates a cart client against the given base URL.
func NewClient(baseURL string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// addRequest is the wire shape of a cart mutation.
type addRequest struct {
	CartID  string                  `json:"cartId"`
	Product domain.CartLineSnapshot `json:"product"`
}

// Add attaches a unit-quantity snapshot of the product to the cart session.
// A missing token fails locally before any network activity. Add is not
// idempotent: repeated calls for the same product each create an independent
// line; merging is the cart service's concern.
func (c *Client) Add(ctx context.Context, sessionID, token string, product domain.Product) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.Unauthorized("authentication token is required")
	}
	if sessionID == "" {
		return apperrors.InvalidInput("cart session id is required")
	}

	body, err := json.Marshal(addRequest{
		CartID:  sessionID,
		Product: domain.NewCartLine(product),
	})
	if err != nil {
		return fmt.Errorf("marshal cart line: %w", err)
	}

	u := c.baseURL + "/cart/add"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "cart request failed",
			slog.String("url", u),
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("cart request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, serviceName)
	}

	// Acknowledgment only; the body carries nothing the caller needs.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	c.logger.InfoContext(ctx, "product added to cart",
		slog.String("cart_id", sessionID),
		slog.String("product_id", product.ID),
	)

	return nil
}
