package bazaar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type repo struct {
	db  *sql.DB
	log *zap.Logger
}

// NewRepo returns the Postgres-backed repository. The *sql.DB is opened once
// in main and injected; the repo never manages the connection lifecycle.
func NewRepo(db *sql.DB, log *zap.Logger) Repo {
	return &repo{db: db, log: log}
}

// RunMigrations applies the file-based migrations to the injected database.
// The migration set creates the products table and the composite
// (seller_id, created_at DESC) index the list query depends on.
func RunMigrations(db *sql.DB, dir string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (r *repo) ListBySeller(ctx context.Context, sellerID string) []Product {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seller_id, image, price, description, created_at
		FROM products
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`, sellerID)
	if err != nil {
		// Fails open: a storefront renders empty rather than erroring.
		r.log.Error("list products failed", zap.String("sellerId", sellerID), zap.Error(err))
		return nil
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Image, &p.Price, &p.Description, &p.CreatedAt); err != nil {
			r.log.Error("scan product failed", zap.Error(err))
			return nil
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("list products failed", zap.String("sellerId", sellerID), zap.Error(err))
		return nil
	}
	return out
}

func (r *repo) GetByID(ctx context.Context, id string) *Product {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, seller_id, image, price, description, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.SellerID, &p.Image, &p.Price, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		// Indistinguishable from not-found for callers; only the log knows.
		r.log.Error("get product failed", zap.String("productId", id), zap.Error(err))
		return nil
	}
	return &p
}

func (r *repo) Add(ctx context.Context, p NewProduct) (*Product, error) {
	product := Product{
		ID:          uuid.NewString(),
		SellerID:    p.SellerID,
		Image:       p.Image,
		Price:       p.Price,
		Description: p.Description,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, seller_id, image, price, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`,
		product.ID,
		product.SellerID,
		product.Image,
		product.Price,
		product.Description,
	).Scan(&product.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &product, nil
}

// disabledRepo stands in when DATABASE_URL is not configured: reads are inert,
// writes fail loudly.
type disabledRepo struct {
	log *zap.Logger
}

// NewDisabledRepo returns a repository that behaves as if the store held no
// data. Add fails because a seller's product must never be dropped silently.
func NewDisabledRepo(log *zap.Logger) Repo {
	return &disabledRepo{log: log}
}

func (d *disabledRepo) ListBySeller(context.Context, string) []Product {
	d.log.Warn("database not configured, returning empty catalog (set DATABASE_URL)")
	return nil
}

func (d *disabledRepo) GetByID(context.Context, string) *Product {
	d.log.Warn("database not configured, product lookup skipped (set DATABASE_URL)")
	return nil
}

func (d *disabledRepo) Add(context.Context, NewProduct) (*Product, error) {
	return nil, errors.New("database not configured: cannot add product (set DATABASE_URL)")
}
