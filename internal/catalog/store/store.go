package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/database"
)

const checkViolation = "23514"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectProductColumns = `id, color_name, unit_weight, unit_price, stock_count, created_at, updated_at`

// scanProduct expects the column order of selectProductColumns.
func scanProduct(s scanner) (*catalog.Product, error) {
	var p catalog.Product

	if err := s.Scan(
		&p.ID, &p.ColorName, &p.UnitWeight, &p.UnitPrice, &p.StockCount, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

func insertProduct(ctx context.Context, q database.Querier, p *catalog.Product) error {
	query := `
		INSERT INTO products (color_name, unit_weight, unit_price, stock_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return q.QueryRowContext(ctx, query,
		p.ColorName,
		p.UnitWeight,
		p.UnitPrice,
		p.StockCount,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if err := insertProduct(ctx, s.db, p); err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	return nil
}

func (s *Store) CreateProducts(ctx context.Context, ps []*catalog.Product) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, p := range ps {
		if err := insertProduct(ctx, dbTx, p); err != nil {
			return fmt.Errorf("creating product %q: %w", p.ColorName, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products ORDER BY color_name ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, params catalog.UpdateParams) (*catalog.Product, error) {
	query := `
		UPDATE products
		SET color_name = COALESCE($1, color_name),
			unit_weight = COALESCE($2, unit_weight),
			unit_price = COALESCE($3, unit_price),
			stock_count = COALESCE($4, stock_count),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + selectProductColumns

	p, err := scanProduct(s.db.QueryRowContext(ctx, query,
		params.ColorName,
		params.UnitWeight,
		params.UnitPrice,
		params.StockCount,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}

		if isCheckViolation(err) {
			return nil, apperr.Invalid("stockCount", "must not be negative")
		}

		return nil, fmt.Errorf("updating product: %w", err)
	}

	return p, nil
}

// DeleteProduct locks the product row so a sale cannot start referencing it while the
// reference check runs.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var locked uuid.UUID
	if err := dbTx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}

		return fmt.Errorf("locking product: %w", err)
	}

	inUseQuery := `
		SELECT EXISTS (
			SELECT 1
			FROM transaction_items i
			JOIN transactions t ON t.id = i.transaction_id
			WHERE i.product_id = $1 AND t.batch_id IS NULL AND NOT t.is_deleted
		)
	`

	var inUse bool
	if err := dbTx.QueryRowContext(ctx, inUseQuery, id).Scan(&inUse); err != nil {
		return fmt.Errorf("checking product references: %w", err)
	}

	if inUse {
		return fmt.Errorf("product %s: %w", id, apperr.ErrProductInUse)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*catalog.Product, error) {
	return AdjustStock(ctx, s.db, id, delta)
}

func (s *Store) TotalStock(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(stock_count), 0) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing stock: %w", err)
	}

	return total, nil
}

// AdjustStock applies delta with a single conditional UPDATE, so the row lock taken by
// Postgres serializes concurrent adjustments and a negative result is never written.
// It runs on q, which lets the ledger fold several adjustments into one sale transaction.
func AdjustStock(ctx context.Context, q database.Querier, id uuid.UUID, delta int) (*catalog.Product, error) {
	query := `
		UPDATE products
		SET stock_count = stock_count + $1, updated_at = NOW()
		WHERE id = $2 AND stock_count + $1 >= 0
		RETURNING ` + selectProductColumns

	p, err := scanProduct(q.QueryRowContext(ctx, query, delta, id))
	if err == nil {
		return p, nil
	}

	if isCheckViolation(err) {
		return nil, &apperr.InsufficientStockError{ProductID: id, Requested: -delta}
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("adjusting stock: %w", err)
	}

	var available int
	if err := q.QueryRowContext(ctx, `SELECT stock_count FROM products WHERE id = $1`, id).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("reading stock: %w", err)
	}

	return nil, &apperr.InsufficientStockError{ProductID: id, Available: available, Requested: -delta}
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolation
}
