package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
	"github.com/ModyAssociates/saffronsociety/internal/supplier"
	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// --- Mocks ---

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

func newTestCatalogService(sup *mockSupplier, repo *mockCatalogRepository) *CatalogService {
	return NewCatalogService(sup, repo, newTestEventProducer(), newTestLogger())
}

// --- Sync ---

func TestSync_UpsertsNormalizedProducts(t *testing.T) {
	sup := new(mockSupplier)
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(sup, repo)
	ctx := context.Background()

	sup.On("ListProducts", ctx).Return([]supplier.Product{
		{ID: "prod-1", Title: "Tee", CreatedAt: "2026-03-01 10:00:00+00:00"},
		{ID: "prod-2", Title: "Hoodie", CreatedAt: "2026-04-01 10:00:00+00:00"},
	}, nil)
	repo.On("Upsert", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Twice()

	result, err := svc.Sync(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Skipped)

	sup.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSync_SupplierFailureAborts(t *testing.T) {
	sup := new(mockSupplier)
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(sup, repo)
	ctx := context.Background()

	sup.On("ListProducts", ctx).Return(nil, apperrors.Unavailable("supplier returned status 503"))

	result, err := svc.Sync(ctx)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSync_SingleStoreFailureSkipsProduct(t *testing.T) {
	sup := new(mockSupplier)
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(sup, repo)
	ctx := context.Background()

	sup.On("ListProducts", ctx).Return([]supplier.Product{
		{ID: "prod-1", CreatedAt: "2026-04-01 10:00:00+00:00"},
		{ID: "prod-2", CreatedAt: "2026-03-01 10:00:00+00:00"},
	}, nil)
	// Products arrive newest first after normalization; prod-1 fails.
	repo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.Product) bool { return p.ID == "prod-1" })).
		Return(errors.New("insert product: connection refused"))
	repo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.Product) bool { return p.ID == "prod-2" })).
		Return(nil)

	result, err := svc.Sync(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Skipped)

	repo.AssertExpectations(t)
}

// --- ListProducts ---

func TestListProducts_ReturnsCachedCatalog(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(new(mockSupplier), repo)
	ctx := context.Background()

	expected := []domain.Product{
		{ID: "prod-2", CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "prod-1", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	repo.On("List", ctx).Return(expected, nil)

	products, err := svc.ListProducts(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, products)

	repo.AssertExpectations(t)
}

func TestListProducts_NilBecomesEmptySlice(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(new(mockSupplier), repo)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Product(nil), nil)

	products, err := svc.ListProducts(ctx)

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

// --- GetProduct ---

func TestGetProduct_Found(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(new(mockSupplier), repo)
	ctx := context.Background()

	expected := &domain.Product{ID: "prod-1", Name: "Tee"}
	repo.On("GetByID", ctx, "prod-1").Return(expected, nil)

	product, err := svc.GetProduct(ctx, "prod-1")

	require.NoError(t, err)
	assert.Equal(t, expected, product)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(new(mockSupplier), repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "prod-9").Return(nil, apperrors.NotFound("product", "prod-9"))

	product, err := svc.GetProduct(ctx, "prod-9")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetProduct_EmptyIDRejected(t *testing.T) {
	svc := newTestCatalogService(new(mockSupplier), new(mockCatalogRepository))

	product, err := svc.GetProduct(context.Background(), "")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
