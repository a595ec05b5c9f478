package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ModyAssociates/saffronsociety/internal/service"
	"github.com/ModyAssociates/saffronsociety/pkg/httputil"
	"github.com/ModyAssociates/saffronsociety/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitOrder handles POST /api/v1/checkout
// The caller's bearer credential is forwarded to the order endpoint. The cart
// is left intact on any failure so the user can retry.
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitOrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	confirmation, err := h.service.SubmitOrder(r.Context(), sessionID(r), bearerToken(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: confirmation})
}
