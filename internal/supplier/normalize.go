package supplier

import (
	"sort"
	"strconv"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
)

// defaultColorName is used when a variant carries a color value but no title.
const defaultColorName = "Color"

// defaultImagePosition is assumed when the supplier omits an image position.
const defaultImagePosition = "front"

// centsToMajor converts a supplier minor-unit price to major currency units.
func centsToMajor(cents int64) float64 {
	return float64(cents) / 100
}

// Normalize converts one supplier product payload into the canonical Product.
// Missing or malformed fields degrade to safe defaults; a single bad product
// or variant never fails the catalog load.
func Normalize(sp Product) domain.Product {
	p := domain.Product{
		ID:          sp.ID,
		Name:        sp.Title,
		Description: sp.Description,
		Images:      []domain.Image{},
		Colors:      []domain.Color{},
		Variants:    []domain.Variant{},
		CreatedAt:   ParseCreatedAt(sp.CreatedAt),
	}

	p.PrimaryImage = primaryImage(sp)

	seenColors := make(map[string]bool)
	seenImages := make(map[string]bool)

	for _, v := range sp.Variants {
		// Color list: dedup by hex, first-seen order, first-seen title wins.
		if v.Color != "" && !seenColors[v.Color] {
			seenColors[v.Color] = true
			name := v.Title
			if name == "" {
				name = defaultColorName
			}
			p.Colors = append(p.Colors, domain.Color{Name: name, Hex: v.Color})
		}

		variant := domain.Variant{
			ID:        strconv.FormatInt(v.ID, 10),
			Size:      v.Title,
			Price:     centsToMajor(v.Price),
			Available: v.IsEnabled,
			Color:     v.Color,
		}

		for _, img := range v.Images {
			if img.Src == "" {
				continue
			}
			variant.Images = append(variant.Images, img.Src)

			// Image list: dedup by URL across all variants, tagged with the
			// owning variant's color and the declared position.
			if !seenImages[img.Src] {
				seenImages[img.Src] = true
				position := img.Position
				if position == "" {
					position = defaultImagePosition
				}
				p.Images = append(p.Images, domain.Image{
					URL:      img.Src,
					Color:    v.Color,
					Position: position,
				})
			}
		}

		p.Variants = append(p.Variants, variant)
	}

	p.Price = productPrice(p.Variants)

	return p
}

// NormalizeAll converts a supplier product list and sorts it newest first, so
// consumers can rely on index 0 being the most recent product.
func NormalizeAll(sps []Product) []domain.Product {
	products := make([]domain.Product, 0, len(sps))
	for _, sp := range sps {
		products = append(products, Normalize(sp))
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return products
}

// primaryImage prefers the product-level image list, then the first variant's
// first image, then empty.
func primaryImage(sp Product) string {
	for _, img := range sp.Images {
		if img.Src != "" {
			return img.Src
		}
	}
	for _, v := range sp.Variants {
		for _, img := range v.Images {
			if img.Src != "" {
				return img.Src
			}
		}
	}
	return ""
}

// productPrice is the minimum price among available variants. When no variant
// is available it falls back to the first variant's price, and to zero when
// there are no variants at all.
func productPrice(variants []domain.Variant) float64 {
	var minAvailable float64
	found := false
	for _, v := range variants {
		if !v.Available {
			continue
		}
		if !found || v.Price < minAvailable {
			minAvailable = v.Price
			found = true
		}
	}
	if found {
		return minAvailable
	}
	if len(variants) > 0 {
		return variants[0].Price
	}
	return 0
}
