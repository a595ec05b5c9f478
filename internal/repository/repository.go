package repository

import (
	"context"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
)

// CartRepository defines the interface for cart persistence. The store is a
// durable slot keyed by session ID; the last writer wins on concurrent
// sessions.
type CartRepository interface {
	// Get retrieves the cart for a session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session ID.
	Delete(ctx context.Context, sessionID string) error
}

// CatalogRepository defines the interface for the normalized catalog cache.
type CatalogRepository interface {
	// Upsert inserts or replaces a normalized product.
	Upsert(ctx context.Context, product *domain.Product) error

	// GetByID retrieves one product by its supplier ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns all products ordered by created_at descending.
	List(ctx context.Context) ([]domain.Product, error)
}
