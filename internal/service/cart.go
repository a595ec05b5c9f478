package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
	"github.com/ModyAssociates/saffronsociety/internal/event"
	"github.com/ModyAssociates/saffronsociety/internal/repository"
	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// CartService maintains the authoritative cart for each session and keeps the
// durable Redis mirror in sync. Persistence failures degrade to an empty cart
// on read and best-effort on write; cart usability must never crash a session
// over a storage problem.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// AddItemInput holds the parameters for adding an item to the cart. The
// product fields form the snapshot frozen onto the line; later catalog
// changes do not touch existing lines.
type AddItemInput struct {
	ProductID    string  `json:"product_id" validate:"required"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price" validate:"gte=0"`
	ProductImage string  `json:"product_image"`
	Size         string  `json:"size"`
	ColorHex     string  `json:"color_hex"`
	ColorName    string  `json:"color_name"`
	Quantity     int     `json:"quantity" validate:"gte=0"`

	// Price is the explicit unit price for this selection (e.g. a variant
	// price). Nil means the line falls back to the product price.
	Price *float64 `json:"price,omitempty"`
}

// GetCart retrieves the cart for a session. A missing, corrupt, or unreadable
// stored cart yields an empty cart, never an error.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.loadCart(ctx, sessionID), nil
}

// AddItem adds a selection to the session's cart. Lines are merged by variant
// key (product, size, color): an existing line gains the given quantity, and
// an explicit price overwrites its locked-in unit price. A new selection is
// appended with the price defaulting to the product price.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	cart := s.loadCart(ctx, sessionID)

	key := domain.NewVariantKey(input.ProductID, input.Size, input.ColorHex)
	if i := cart.FindLine(key); i >= 0 {
		cart.Items[i].Quantity += input.Quantity
		if input.Price != nil {
			// A variant price change replaces the locked-in price without
			// losing the cart entry.
			price := *input.Price
			cart.Items[i].UnitPrice = &price
		}
	} else {
		price := input.ProductPrice
		if input.Price != nil {
			price = *input.Price
		}
		cart.Items = append(cart.Items, domain.CartLine{
			Product: domain.ProductSnapshot{
				ID:    input.ProductID,
				Name:  input.ProductName,
				Price: input.ProductPrice,
				Image: input.ProductImage,
			},
			Size:      input.Size,
			ColorHex:  input.ColorHex,
			ColorName: input.ColorName,
			Quantity:  input.Quantity,
			UnitPrice: &price,
		})
	}

	s.saveCart(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.String("size", input.Size),
		slog.String("color", input.ColorHex),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// RemoveItem removes every line matching the variant key. Absence of a match
// is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, size, colorHex string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart := s.loadCart(ctx, sessionID)

	key := domain.NewVariantKey(productID, size, colorHex)
	kept := cart.Items[:0]
	for i := range cart.Items {
		if cart.Items[i].Key() != key {
			kept = append(kept, cart.Items[i])
		}
	}
	cart.Items = kept

	s.saveCart(ctx, cart)
	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// UpdateQuantity sets the matching line's quantity to the given absolute
// value. Zero or negative delegates to removal; a zero-quantity line must
// never persist. This is distinct from AddItem's additive semantics: AddItem
// accumulates repeated add-to-cart clicks, UpdateQuantity reflects an
// explicit user-entered quantity.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID, size, colorHex string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID, size, colorHex)
	}

	cart := s.loadCart(ctx, sessionID)

	key := domain.NewVariantKey(productID, size, colorHex)
	if i := cart.FindLine(key); i >= 0 {
		cart.Items[i].Quantity = quantity
		s.saveCart(ctx, cart)
		s.publishUpdated(ctx, cart)

		s.logger.InfoContext(ctx, "cart line quantity updated",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
			slog.Int("quantity", quantity),
		)
	}

	return cart, nil
}

// ClearCart empties the session's cart unconditionally.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		// Best effort: an unreachable store must not break the session.
		s.logger.ErrorContext(ctx, "failed to delete cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// loadCart reads the session's cart from the store. Missing key, corrupt
// data, and read failures all reset to an empty cart; storage problems are
// logged, never propagated.
func (s *CartService) loadCart(ctx context.Context, sessionID string) *domain.Cart {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "cart unreadable, resetting to empty",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
		return s.newEmptyCart(sessionID)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartLine{}
	}
	cart.SessionID = sessionID
	return cart
}

// saveCart writes the cart back to the store, best effort.
func (s *CartService) saveCart(ctx context.Context, cart *domain.Cart) {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) newEmptyCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Items:     []domain.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
