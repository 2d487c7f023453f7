// Package catalog is the read-only product feed. The engine consumes
// Product/Variant records; there is no write path back.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	Close() error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, published, has_variants, stock, selling_price, currency, variant_groups, created_at
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	if product.HasVariants {
		variants, err := r.variantsFor(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		product.Variants = variants
	}

	return product, nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, published, has_variants, stock, selling_price, currency, variant_groups, created_at
		FROM products
		WHERE published = 1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	byID := make(map[string]*domain.Product)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.attachVariants(ctx, byID); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *SQLiteRepository) variantsFor(ctx context.Context, productID string) ([]domain.Variant, error) {
	query := `
		SELECT id, product_id, option_values, stock, selling_price, offer_price,
		       offer_start, offer_end, preorder, image_url
		FROM variants
		WHERE product_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		v, _, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return variants, nil
}

func (r *SQLiteRepository) attachVariants(ctx context.Context, byID map[string]*domain.Product) error {
	query := `
		SELECT id, product_id, option_values, stock, selling_price, offer_price,
		       offer_start, offer_end, preorder, image_url
		FROM variants
		ORDER BY product_id, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, productID, err := scanVariant(rows)
		if err != nil {
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var groups string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Published,
		&p.HasVariants,
		&p.Stock,
		&p.SellingPrice,
		&p.Currency,
		&groups,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.VariantGroups = splitLabels(groups)
	return p, nil
}

func scanVariant(row rowScanner) (domain.Variant, string, error) {
	var (
		v         domain.Variant
		productID string
		values    string
		start     sql.NullInt64
		end       sql.NullInt64
	)
	err := row.Scan(
		&v.ID,
		&productID,
		&values,
		&v.Stock,
		&v.SellingPrice,
		&v.OfferPrice,
		&start,
		&end,
		&v.Preorder,
		&v.ImageURL,
	)
	if err != nil {
		return domain.Variant{}, "", err
	}
	v.Values = splitLabels(values)
	if start.Valid {
		t := time.Unix(start.Int64, 0)
		v.OfferStart = &t
	}
	if end.Valid {
		t := time.Unix(end.Int64, 0)
		v.OfferEnd = &t
	}
	return v, productID, nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
