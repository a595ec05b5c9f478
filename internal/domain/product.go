package domain

import "time"

// Product is the canonical catalog product shape, produced by the normalizer
// from the supplier payload. Prices are in major currency units (dollars).
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	PrimaryImage string    `json:"primary_image,omitempty"`
	Images       []Image   `json:"images"`
	Colors       []Color   `json:"colors"`
	Variants     []Variant `json:"variants"`
	CreatedAt    time.Time `json:"created_at"`
}

// Color is a named color option, deduplicated by hex value.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Image is one product image tagged with the variant color it belongs to.
type Image struct {
	URL      string `json:"url"`
	Color    string `json:"color,omitempty"`
	Position string `json:"position"`
}

// Variant is one purchasable configuration of a product.
type Variant struct {
	ID        string   `json:"id"`
	Size      string   `json:"size"`
	Price     float64  `json:"price"`
	Available bool     `json:"available"`
	Color     string   `json:"color,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// Snapshot captures the product state relevant to a cart line at add time.
// The catalog may change afterwards; the snapshot does not.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.PrimaryImage,
	}
}

// ProductSnapshot is the frozen product reference stored on a cart line.
type ProductSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}
