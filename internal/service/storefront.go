package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// Catalog is the read-only product catalog consumed by the storefront.
type Catalog interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

// Cart performs authenticated cart mutations against the cart service.
type Cart interface {
	Add(ctx context.Context, sessionID, token string, product domain.Product) error
}

// Sessions provides the anonymous cart session identity.
type Sessions interface {
	Ensure(ctx context.Context) string
}

// Storefront orchestrates session identity, catalog reads and cart
// mutations behind the storefront API.
type Storefront struct {
	sessions Sessions
	catalog  Catalog
	cart     Cart
	events   *event.Producer
	logger   *slog.Logger
}

// New creates a new storefront service. events may be nil when activity
// publishing is disabled.
func New(sessions Sessions, catalog Catalog, cart Cart, events *event.Producer, l *slog.Logger) *Storefront {
	return &Storefront{
		sessions: sessions,
		catalog:  catalog,
		cart:     cart,
		events:   events,
		logger:   l,
	}
}

// SessionID returns the cart session identifier, minting one on first use.
func (s *Storefront) SessionID(ctx context.Context) string {
	return s.sessions.Ensure(ctx)
}

// BrowseAll returns the full product catalog.
func (s *Storefront) BrowseAll(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListAll(ctx)
}

// BrowseCategory returns the products of a single category.
func (s *Storefront) BrowseCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.catalog.ListByCategory(ctx, category)
}

// ProductDetail returns a single product by its identifier.
func (s *Storefront) ProductDetail(ctx context.Context, id string) (domain.Product, error) {
	return s.catalog.GetByID(ctx, id)
}

// Search returns the products matching a free-text query. A blank query
// resolves to an empty result without consulting the catalog.
func (s *Storefront) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return s.catalog.Search(ctx, query)
}

// AddToCart adds one unit of a product to the shopper's cart. The product
// is fetched fresh so the cart line snapshots the catalog state at add
// time. A missing token fails before any downstream call is made.
func (s *Storefront) AddToCart(ctx context.Context, token, productID string) (domain.Product, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Product{}, apperrors.Unauthorized("authentication token is required")
	}
	if strings.TrimSpace(productID) == "" {
		return domain.Product{}, apperrors.InvalidInput("product id is required")
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	sessionID := s.sessions.Ensure(ctx)

	if err := s.cart.Add(ctx, sessionID, token, product); err != nil {
		return domain.Product{}, err
	}

	s.publishItemAdded(ctx, sessionID, product)

	return product, nil
}

// publishItemAdded emits the activity event for a completed cart mutation.
// Publishing is best effort and never fails the request.
func (s *Storefront) publishItemAdded(ctx context.Context, sessionID string, product domain.Product) {
	if s.events == nil {
		return
	}

	line := domain.NewCartLine(product)
	if err := s.events.PublishCartItemAdded(ctx, sessionID, line); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "failed to publish cart activity event",
			slog.String("cart_id", sessionID),
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
}
