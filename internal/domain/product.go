package domain

import "strings"

// PlaceholderImage is served whenever a product record carries no usable
// image in either legacy field.
const PlaceholderImage = "https://via.placeholder.com/150"

// inlineImagePrefix marks an image payload embedded directly in the record
// (a data URI) rather than a URL.
const inlineImagePrefix = "data:image"

// Product is an immutable snapshot of a catalog record as returned by the
// catalog service. Records are inconsistent about the image field spelling;
// both spellings are decoded and reconciled through ResolveImage.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImgURL      string  `json:"imgUrl,omitempty"`
	ImgURLAlt   string  `json:"imgurl,omitempty"`
	ModelURL    string  `json:"modelUrl,omitempty"`
	Category    string  `json:"category,omitempty"`
}

// HasModel reports whether the product carries a 3D asset reference.
func (p Product) HasModel() bool {
	return p.ModelURL != ""
}

// ResolveImage returns the displayable image for a product. An inline data
// URI wins verbatim; otherwise the first non-empty of the two legacy field
// spellings is used, falling back to the fixed placeholder. Every consumer
// of a product image must go through this function so the fallback chain is
// applied uniformly.
func ResolveImage(p Product) string {
	if strings.HasPrefix(p.ImgURL, inlineImagePrefix) {
		return p.ImgURL
	}
	if p.ImgURL != "" {
		return p.ImgURL
	}
	if p.ImgURLAlt != "" {
		return p.ImgURLAlt
	}
	return PlaceholderImage
}

// CartLineSnapshot is the view of a product captured at add-to-cart time.
// Quantity is always 1: each add is an independent line and any merging is
// the cart service's concern.
type CartLineSnapshot struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImgURL      string  `json:"imgurl"`
	Quantity    int     `json:"quantity"`
}

// NewCartLine builds a unit-quantity cart line from a product snapshot,
// resolving the image through the shared fallback chain.
func NewCartLine(p Product) CartLineSnapshot {
	return CartLineSnapshot{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      ResolveImage(p),
		Quantity:    1,
	}
}
