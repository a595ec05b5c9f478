package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
	"github.com/ModyAssociates/saffronsociety/internal/event"
	"github.com/ModyAssociates/saffronsociety/internal/repository"
	"github.com/ModyAssociates/saffronsociety/internal/supplier"
	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// SupplierLister fetches the raw product list from the supplier API.
type SupplierLister interface {
	ListProducts(ctx context.Context) ([]supplier.Product, error)
}

// CatalogService keeps the normalized catalog cache in sync with the supplier
// and serves the read path.
type CatalogService struct {
	supplier SupplierLister
	repo     repository.CatalogRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(sup SupplierLister, repo repository.CatalogRepository, producer *event.Producer, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		supplier: sup,
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// SyncResult summarizes one catalog sync run.
type SyncResult struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// Sync fetches the supplier product list, normalizes it, and upserts it into
// the catalog cache. A supplier-wide failure surfaces to the caller; a single
// product failing to store is skipped and logged, never aborting the run.
func (s *CatalogService) Sync(ctx context.Context) (*SyncResult, error) {
	raw, err := s.supplier.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync catalog: %w", err)
	}

	products := supplier.NormalizeAll(raw)

	result := &SyncResult{}
	for i := range products {
		if err := s.repo.Upsert(ctx, &products[i]); err != nil {
			result.Skipped++
			s.logger.ErrorContext(ctx, "failed to store product, skipping",
				slog.String("product_id", products[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Synced++
	}

	if err := s.producer.PublishCatalogSynced(ctx, result.Synced, result.Skipped); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish catalog.synced event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "catalog synced",
		slog.Int("synced", result.Synced),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}

// ListProducts returns the cached catalog, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct retrieves one product by its supplier ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}
