package http

import (
	"net/http"
	"strings"

	"github.com/ModyAssociates/saffronsociety/pkg/httputil"
	"github.com/ModyAssociates/saffronsociety/pkg/logger"
)

// sessionHeader carries the storefront session identity. Each browser session
// owns one cart.
const sessionHeader = "X-Session-ID"

// SessionFromHeader requires the session header and stores its value in the
// request context.
func SessionFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(sessionHeader)
		if sessionID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_INPUT",
					Message: sessionHeader + " header is required",
				},
			})
			return
		}

		ctx := logger.WithSessionID(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the session identity stored by SessionFromHeader.
func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// bearerToken extracts the bearer credential from the Authorization header,
// or returns the empty string.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return auth[7:]
	}
	return ""
}
