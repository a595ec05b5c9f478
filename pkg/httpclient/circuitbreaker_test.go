package httpclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newBreakerClient(name string, minRequests uint32) *CircuitBreakerClient {
	cfg := fastRetryConfig()
	cfg.MaxRetries = 0

	cbCfg := DefaultCircuitBreakerConfig(name)
	cbCfg.MinRequests = minRequests
	cbCfg.Timeout = 50 * time.Millisecond

	return NewCircuitBreakerClient(New(cfg), cbCfg, testLogger())
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newBreakerClient("cb-success", 5)

	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, client.State())
}

func TestCircuitBreaker_ServerErrorCountsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newBreakerClient("cb-5xx", 5)

	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 500")
}

func TestCircuitBreaker_TripsAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newBreakerClient("cb-trip", 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Get(ctx, srv.URL)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, client.State())

	// While open, requests are rejected without reaching the server.
	_, err := client.Get(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	failing := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newBreakerClient("cb-recover", 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		client.Get(ctx, srv.URL)
	}
	require.Equal(t, gobreaker.StateOpen, client.State())

	failing = false
	time.Sleep(60 * time.Millisecond)

	resp, err := client.Get(ctx, srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, client.State())
}
