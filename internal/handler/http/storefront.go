package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// StorefrontHandler handles HTTP requests for the storefront API.
type StorefrontHandler struct {
	service *service.Storefront
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.Storefront, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddToCartRequest is the JSON request body for adding a product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// --- Response envelope ---

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// --- View models ---

// ProductView is a product shaped for rendering, with the image fallback
// chain already applied.
type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
	HasModel    bool    `json:"has_model"`
	ModelURL    string  `json:"model_url,omitempty"`
	Category    string  `json:"category,omitempty"`
}

func newProductView(p domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Image:       domain.ResolveImage(p),
		HasModel:    p.HasModel(),
		ModelURL:    p.ModelURL,
		Category:    p.Category,
	}
}

func newProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

type sessionResponse struct {
	CartID string `json:"cart_id"`
}

type productListResponse struct {
	CartID   string        `json:"cart_id"`
	Products []ProductView `json:"products"`
	Count    int           `json:"count"`
	Message  string        `json:"message,omitempty"`
}

type productDetailResponse struct {
	CartID  string      `json:"cart_id"`
	Product ProductView `json:"product"`
}

type addToCartResponse struct {
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// --- Handlers ---

// GetSession handles GET /api/v1/session
func (h *StorefrontHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{
		Data: sessionResponse{CartID: h.service.SessionID(r.Context())},
	})
}

// ListProducts handles GET /api/v1/products
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.BrowseAll(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Oops! Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, response{Data: productListResponse{
		CartID:   h.service.SessionID(r.Context()),
		Products: newProductViews(products),
		Count:    len(products),
	}})
}

// ListProductsByCategory handles GET /api/v1/products/category/{category}
func (h *StorefrontHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "category is required"},
		})
		return
	}

	products, err := h.service.BrowseCategory(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err, "Oops! Something went wrong")
		return
	}

	resp := productListResponse{
		CartID:   h.service.SessionID(r.Context()),
		Products: newProductViews(products),
		Count:    len(products),
	}
	if len(products) == 0 {
		resp.Message = fmt.Sprintf("No %ss items found.", category)
	}

	writeJSON(w, http.StatusOK, response{Data: resp})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	product, err := h.service.ProductDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, response{
				Error: &errorResponse{Code: "NOT_FOUND", Message: "Product not available"},
			})
			return
		}
		h.writeError(w, r, err, "Failed to load product")
		return
	}

	writeJSON(w, http.StatusOK, response{Data: productDetailResponse{
		CartID:  h.service.SessionID(r.Context()),
		Product: newProductView(product),
	}})
}

// SearchProducts handles GET /api/v1/search?q=
func (h *StorefrontHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	products, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err, "Search failed")
		return
	}

	resp := productListResponse{
		CartID:   h.service.SessionID(r.Context()),
		Products: newProductViews(products),
		Count:    len(products),
	}
	if len(products) == 0 {
		resp.Message = "No matching products found."
	} else {
		resp.Message = fmt.Sprintf("Found %d %s.", len(products), pluralize(len(products), "product"))
	}

	writeJSON(w, http.StatusOK, response{Data: resp})
}

// AddToCart handles POST /api/v1/cart/add
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "Please login to add items to cart."},
		})
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	product, err := h.service.AddToCart(r.Context(), token, req.ProductID)
	if err != nil {
		h.writeError(w, r, err, "Failed to add to cart")
		return
	}

	writeJSON(w, http.StatusOK, response{Data: addToCartResponse{
		CartID:    h.service.SessionID(r.Context()),
		ProductID: product.ID,
		Message:   fmt.Sprintf("%s added to cart!", product.Name),
	}})
}

// --- Helpers ---

func pluralize(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}

// writeError maps service errors to the response envelope. Downstream
// failures without a recognised kind surface as 502 with a page-appropriate
// message; the underlying cause is only logged.
func (h *StorefrontHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := fallbackMessage

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "Product not available"
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = "UNAUTHORIZED"
		message = "Please login to add items to cart."
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		code = "FORBIDDEN"
		message = "You do not have access to this cart."
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrServiceUnavail):
		code = "SERVICE_UNAVAILABLE"
		status = http.StatusServiceUnavailable
	default:
		// Transport failures and downstream 5xx.
		code = "BAD_GATEWAY"
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "downstream request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: code, Message: message},
	})
}

func (h *StorefrontHandler) writeValidationError(w http.ResponseWriter, err error) {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_FAILED",
				Message: "request validation failed",
				Fields:  vErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
