package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
	apperrors "github.com/ModyAssociates/saffronsociety/pkg/errors"
)

// Pool is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
// Colors, images, and variants are stored as JSONB alongside the scalar
// columns.
type CatalogRepository struct {
	pool Pool
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Upsert inserts or replaces a normalized product keyed by its supplier ID.
func (r *CatalogRepository) Upsert(ctx context.Context, p *domain.Product) error {
	colorsJSON, err := json.Marshal(p.Colors)
	if err != nil {
		return fmt.Errorf("marshal colors: %w", err)
	}
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	variantsJSON, err := json.Marshal(p.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}

	query := `
		INSERT INTO catalog_products (id, name, description, price, primary_image, colors, images, variants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			primary_image = EXCLUDED.primary_image,
			colors = EXCLUDED.colors,
			images = EXCLUDED.images,
			variants = EXCLUDED.variants,
			created_at = EXCLUDED.created_at`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.PrimaryImage,
		colorsJSON,
		imagesJSON,
		variantsJSON,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

// GetByID retrieves one product by its supplier ID.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, primary_image, colors, images, variants, created_at
		FROM catalog_products
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// List returns all products ordered newest first.
func (r *CatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, primary_image, colors, images, variants, created_at
		FROM catalog_products
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p            domain.Product
		colorsJSON   []byte
		imagesJSON   []byte
		variantsJSON []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.PrimaryImage,
		&colorsJSON,
		&imagesJSON,
		&variantsJSON,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(colorsJSON, &p.Colors); err != nil {
		return nil, fmt.Errorf("unmarshal colors: %w", err)
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
		return nil, fmt.Errorf("unmarshal variants: %w", err)
	}

	return &p, nil
}
