package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches the product list from the supplier API.
type Client struct {
	http    HTTPDoer
	baseURL string
	token   string
	logger  *slog.Logger
}

// NewClient creates a supplier API client. The token is sent as a bearer
// credential on every request.
func NewClient(http HTTPDoer, baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: baseURL,
		token:   token,
		logger:  logger,
	}
}

// listResponse is the supplier's product list envelope.
type listResponse struct {
	Products []Product `json:"products"`
}

// ListProducts fetches the full product list from the supplier. A non-200
// response or a parse failure surfaces as an upstream error; callers treat it
// as an empty catalog and retry later.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	url := c.baseURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create supplier request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch supplier products: %w: %w", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unavailable(fmt.Sprintf("supplier returned status %d", resp.StatusCode))
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, apperrors.Unavailable("supplier returned malformed product list: " + err.Error())
	}

	c.logger.DebugContext(ctx, "fetched supplier products",
		slog.Int("count", len(list.Products)),
	)

	return list.Products, nil
}
