package supplier

import "time"

// Product is the raw supplier product payload. Field shapes follow the
// supplier's print-on-demand API and are not contractually guaranteed, so
// consumers must tolerate missing or malformed values.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
	CreatedAt   string    `json:"created_at"`
}

// Image is a supplier product or variant image.
type Image struct {
	Src      string `json:"src"`
	Position string `json:"position"`
}

// Variant is a supplier product variant. Price is in minor currency units
// (cents). Title doubles as the size label; Color carries the hex value of
// the variant's color option.
type Variant struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Price     int64   `json:"price"`
	IsEnabled bool    `json:"is_enabled"`
	Color     string  `json:"color"`
	Images    []Image `json:"images"`
}

// createdAtLayouts are the timestamp formats the supplier has been observed
// to emit.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
}

// ParseCreatedAt parses the supplier's created_at timestamp. Unparseable
// values yield the zero time, which sorts last in a newest-first ordering.
func ParseCreatedAt(s string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
