package domain

import "time"

// VariantKey identifies a distinct purchasable selection. Two cart lines are
// the same line iff their keys are equal. Size and color default to the empty
// string when absent, so an unconfigured selection still has a stable identity.
type VariantKey struct {
	ProductID string
	Size      string
	ColorHex  string
}

// NewVariantKey builds the key for a product selection.
func NewVariantKey(productID, size, colorHex string) VariantKey {
	return VariantKey{ProductID: productID, Size: size, ColorHex: colorHex}
}

// CartLine is one entry in the cart: a variant key, a quantity, and the unit
// price locked in at add time.
type CartLine struct {
	Product   ProductSnapshot `json:"product"`
	Size      string          `json:"size"`
	ColorHex  string          `json:"color_hex"`
	ColorName string          `json:"color_name,omitempty"`
	Quantity  int             `json:"quantity"`

	// UnitPrice is the price locked in when the line was added. It is nil for
	// lines persisted before pricing was captured; those fall back to the
	// snapshot product price.
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

// Key returns the variant key identifying this line.
func (l *CartLine) Key() VariantKey {
	return NewVariantKey(l.Product.ID, l.Size, l.ColorHex)
}

// EffectivePrice is the unit price used for totals: the locked-in price when
// present, else the snapshot product price.
func (l *CartLine) EffectivePrice() float64 {
	if l.UnitPrice != nil {
		return *l.UnitPrice
	}
	return l.Product.Price
}

// Cart holds the line items for one storefront session.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal is the sum of effective unit price times quantity across all lines,
// in major currency units.
func (c *Cart) Subtotal() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].EffectivePrice() * float64(c.Items[i].Quantity)
	}
	return total
}

// ItemCount is the total number of units in the cart, not the number of
// distinct lines.
func (c *Cart) ItemCount() int {
	var count int
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// FindLine returns the index of the first line matching the given key, or -1.
// Centralizes the O(n) identity search.
func (c *Cart) FindLine(key VariantKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}
