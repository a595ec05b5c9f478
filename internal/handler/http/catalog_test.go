package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
	"github.com/ModyAssociates/saffronsociety/internal/service"
	"github.com/ModyAssociates/saffronsociety/internal/supplier"
	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// ============================================================================
// Mocks
// ============================================================================

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) Upsert(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockCatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type mockSupplier struct {
	mock.Mock
}

func (m *mockSupplier) ListProducts(ctx context.Context) ([]supplier.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]supplier.Product), args.Error(1)
}

func setupCatalogRouter(sup *mockSupplier, repo *mockCatalogRepository) *chi.Mux {
	svc := service.NewCatalogService(sup, repo, testEventProducer(), testLogger())
	handler := NewCatalogHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)
		r.Get("/products/{id}", handler.GetProduct)
		r.Post("/catalog/sync", handler.Sync)
	})
	return r
}

// ============================================================================
// ListProducts
// ============================================================================

func TestListProducts_ReturnsCatalog(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(new(mockSupplier), repo)

	repo.On("List", mock.Anything).Return([]domain.Product{
		{ID: "prod-2", Name: "Hoodie", CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "prod-1", Name: "Tee", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 2)
	assert.Equal(t, "prod-2", products[0].ID)
}

func TestListProducts_EmptyCatalogIsEmptyArray(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(new(mockSupplier), repo)

	repo.On("List", mock.Anything).Return([]domain.Product(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

// ============================================================================
// GetProduct
// ============================================================================

func TestGetProduct_Found(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(new(mockSupplier), repo)

	repo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{ID: "prod-1", Name: "Tee"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"prod-1"`)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(new(mockSupplier), repo)

	repo.On("GetByID", mock.Anything, "prod-9").Return(nil, apperrors.NotFound("product", "prod-9"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// ============================================================================
// Sync
// ============================================================================

func TestSync_ReportsCounts(t *testing.T) {
	sup := new(mockSupplier)
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(sup, repo)

	sup.On("ListProducts", mock.Anything).Return([]supplier.Product{
		{ID: "prod-1", Title: "Tee", CreatedAt: "2026-03-01 10:00:00+00:00"},
	}, nil)
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"synced":1`)
	assert.Contains(t, rec.Body.String(), `"skipped":0`)
}

func TestSync_SupplierDown(t *testing.T) {
	sup := new(mockSupplier)
	repo := new(mockCatalogRepository)
	router := setupCatalogRouter(sup, repo)

	sup.On("ListProducts", mock.Anything).Return(nil, apperrors.Unavailable("supplier returned status 503"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
