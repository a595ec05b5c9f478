package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ModyAssociates/saffronsociety/internal/event"
	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CheckoutService submits the session's cart to the external order endpoint.
// The cart is cleared only on confirmed success; any failure leaves the cart
// intact so the user can retry without re-adding items.
type CheckoutService struct {
	cart     *CartService
	producer *event.Producer
	logger   *slog.Logger
	http     HTTPDoer
	orderURL string
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(cart *CartService, producer *event.Producer, logger *slog.Logger, http HTTPDoer, orderURL string) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		producer: producer,
		logger:   logger,
		http:     http,
		orderURL: orderURL,
	}
}

// ShippingAddress is the delivery address for an order.
type ShippingAddress struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address1  string `json:"address1" validate:"required"`
	Address2  string `json:"address2"`
	City      string `json:"city" validate:"required"`
	Region    string `json:"region"`
	Country   string `json:"country" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
}

// PaymentInfo carries the opaque payment token collected by the storefront.
type PaymentInfo struct {
	Method string `json:"method" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

// SubmitOrderInput holds the parameters for submitting an order.
type SubmitOrderInput struct {
	ShippingAddress ShippingAddress `json:"shipping_address" validate:"required"`
	Payment         PaymentInfo     `json:"payment" validate:"required"`
}

// orderLine is one line in the outbound order payload.
type orderLine struct {
	ProductID string  `json:"product_id"`
	Size      string  `json:"size"`
	ColorHex  string  `json:"color_hex"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// orderRequest is the payload posted to the order endpoint.
type orderRequest struct {
	Items           []orderLine     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Payment         PaymentInfo     `json:"payment"`
}

// orderResponse is the order endpoint's reply.
type orderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// OrderConfirmation is returned to the caller on a successful submission.
type OrderConfirmation struct {
	OrderID  string  `json:"order_id"`
	Subtotal float64 `json:"subtotal"`
	Items    int     `json:"items"`
}

// SubmitOrder posts the session's current cart to the order endpoint using
// the given bearer credential. On confirmed success the cart is cleared and
// an order.submitted event is published.
func (s *CheckoutService) SubmitOrder(ctx context.Context, sessionID, bearerToken string, input SubmitOrderInput) (*OrderConfirmation, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if bearerToken == "" {
		return nil, apperrors.Unauthorized("bearer credential is required")
	}

	cart, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items := make([]orderLine, len(cart.Items))
	for i := range cart.Items {
		line := &cart.Items[i]
		items[i] = orderLine{
			ProductID: line.Product.ID,
			Size:      line.Size,
			ColorHex:  line.ColorHex,
			Quantity:  line.Quantity,
			UnitPrice: line.EffectivePrice(),
		}
	}

	payload, err := json.Marshal(orderRequest{
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		Payment:         input.Payment,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.orderURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.CheckoutFailed("order service unreachable: " + err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.Unauthorized("order service rejected the credential")
	case resp.StatusCode >= 400:
		return nil, apperrors.CheckoutFailed(fmt.Sprintf("order service returned status %d", resp.StatusCode))
	}

	var result orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.CheckoutFailed("order service returned a malformed response")
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "order was not accepted"
		}
		return nil, apperrors.CheckoutFailed(msg)
	}

	subtotal := cart.Subtotal()
	itemCount := cart.ItemCount()

	// Confirmed success: only now is the cart cleared.
	if err := s.cart.ClearCart(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", result.OrderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderSubmitted(ctx, sessionID, result.OrderID, itemCount, subtotal); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("order_id", result.OrderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("session_id", sessionID),
		slog.String("order_id", result.OrderID),
		slog.Int("items", itemCount),
		slog.Float64("subtotal", subtotal),
	)

	return &OrderConfirmation{
		OrderID:  result.OrderID,
		Subtotal: subtotal,
		Items:    itemCount,
	}, nil
}
