package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveImage_InlinePayloadWinsVerbatim(t *testing.T) {
	inline := "data:image/png;base64,iVBORw0KGgo="
	p := Product{ImgURL: inline, ImgURLAlt: "https://cdn.example.com/other.jpg"}

	assert.Equal(t, inline, ResolveImage(p))
}

func TestResolveImage_PrimaryFieldPreferred(t *testing.T) {
	p := Product{
		ImgURL:    "https://cdn.example.com/primary.jpg",
		ImgURLAlt: "https://cdn.example.com/legacy.jpg",
	}

	assert.Equal(t, "https://cdn.example.com/primary.jpg", ResolveImage(p))
}

func TestResolveImage_LegacySpellingFallback(t *testing.T) {
	p := Product{ImgURLAlt: "https://cdn.example.com/legacy.jpg"}

	assert.Equal(t, "https://cdn.example.com/legacy.jpg", ResolveImage(p))
}

func TestResolveImage_PlaceholderWhenBothEmpty(t *testing.T) {
	assert.Equal(t, PlaceholderImage, ResolveImage(Product{Name: "Milk"}))
}

func TestNewCartLine(t *testing.T) {
	p := Product{
		ID:          "p1",
		Name:        "Milk",
		Description: "1L full cream",
		Price:       40,
		Quantity:    17,
		ImgURLAlt:   "https://cdn.example.com/milk.jpg",
	}

	line := NewCartLine(p)

	assert.Equal(t, "p1", line.ProductID)
	assert.Equal(t, "Milk", line.Name)
	assert.Equal(t, "1L full cream", line.Description)
	assert.Equal(t, float64(40), line.Price)
	assert.Equal(t, "https://cdn.example.com/milk.jpg", line.ImgURL)
	// Unit quantity regardless of stock count.
	assert.Equal(t, 1, line.Quantity)
}

func TestNewCartLine_PlaceholderImage(t *testing.T) {
	line := NewCartLine(Product{ID: "p2", Name: "Ghost"})

	assert.Equal(t, PlaceholderImage, line.ImgURL)
}

func TestProduct_DecodesBothImageSpellings(t *testing.T) {
	raw := `{"_id":"p1","name":"Phone","price":12999.5,"quantity":3,"imgUrl":"a.jpg","imgurl":"b.jpg","modelUrl":"m.glb"}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "a.jpg", p.ImgURL)
	assert.Equal(t, "b.jpg", p.ImgURLAlt)
	assert.True(t, p.HasModel())
}

func TestCartLineSnapshot_WireShape(t *testing.T) {
	data, err := json.Marshal(NewCartLine(Product{ID: "p1", Name: "Milk", Price: 40}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	// Field names are part of the cart service contract.
	assert.Contains(t, m, "productId")
	assert.Contains(t, m, "imgurl")
	assert.EqualValues(t, 1, m["quantity"])
}
