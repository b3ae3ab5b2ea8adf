package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/batchpos/internal/ledger/store"
)

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

const selectBatchColumns = `
	id, number, name, start_date, end_date, total_sales, total_collected, total_due,
	transaction_count, items_summary, customer_debts, created_at
`

// scanBatch expects the column order of selectBatchColumns.
func scanBatch(s scanner) (*batch.Batch, error) {
	var b batch.Batch

	var items, debts []byte

	if err := s.Scan(
		&b.ID, &b.Number, &b.Name, &b.StartDate, &b.EndDate, &b.TotalSales, &b.TotalCollected, &b.TotalDue,
		&b.TransactionCount, &items, &debts, &b.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &b.ItemsSummary); err != nil {
		return nil, fmt.Errorf("decoding items summary: %w", err)
	}

	if err := json.Unmarshal(debts, &b.CustomerDebts); err != nil {
		return nil, fmt.Errorf("decoding customer debts: %w", err)
	}

	return &b, nil
}

func (s *Store) ListBatches(ctx context.Context) ([]*batch.Batch, error) {
	query := `SELECT ` + selectBatchColumns + ` FROM batches ORDER BY number DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var batches []*batch.Batch

	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}

		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batch rows: %w", err)
	}

	return batches, nil
}

func (s *Store) GetBatch(ctx context.Context, id uuid.UUID) (*batch.Batch, error) {
	query := `SELECT ` + selectBatchColumns + ` FROM batches WHERE id = $1`

	b, err := scanBatch(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("batch %s: %w", id, apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("getting batch: %w", err)
	}

	return b, nil
}

type closeTx struct {
	tx *sql.Tx
}

func (s *Store) BeginClose(ctx context.Context) (batch.CloseTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning close tx: %w", err)
	}

	return &closeTx{tx: dbTx}, nil
}

func (c *closeTx) Commit() error   { return c.tx.Commit() }
func (c *closeTx) Rollback() error { return c.tx.Rollback() }

// NextNumber holds the counter row lock until commit, so two closes run one after the other.
func (c *closeTx) NextNumber(ctx context.Context) (int, error) {
	var last int
	if err := c.tx.QueryRowContext(ctx, `SELECT last_number FROM batch_sequence WHERE id FOR UPDATE`).Scan(&last); err != nil {
		return 0, fmt.Errorf("locking batch sequence: %w", err)
	}

	return last + 1, nil
}

func (c *closeTx) LoadActive(ctx context.Context) ([]*ledger.Transaction, error) {
	return ledgerstore.LoadActive(ctx, c.tx)
}

func (c *closeTx) CreateBatch(ctx context.Context, b *batch.Batch) error {
	items, err := json.Marshal(b.ItemsSummary)
	if err != nil {
		return fmt.Errorf("encoding items summary: %w", err)
	}

	debts, err := json.Marshal(b.CustomerDebts)
	if err != nil {
		return fmt.Errorf("encoding customer debts: %w", err)
	}

	query := `
		INSERT INTO batches (number, name, start_date, end_date, total_sales, total_collected, total_due,
			transaction_count, items_summary, customer_debts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err = c.tx.QueryRowContext(ctx, query,
		b.Number,
		b.Name,
		b.StartDate,
		b.EndDate,
		b.TotalSales,
		b.TotalCollected,
		b.TotalDue,
		b.TransactionCount,
		string(items),
		string(debts),
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating batch: %w", err)
	}

	if _, err := c.tx.ExecContext(ctx, `UPDATE batch_sequence SET last_number = $1 WHERE id`, b.Number); err != nil {
		return fmt.Errorf("advancing batch sequence: %w", err)
	}

	return nil
}

// Archive only touches rows that are still active; fewer updated rows than ids means the
// snapshot was not held and the close must not commit.
func (c *closeTx) Archive(ctx context.Context, batchID uuid.UUID, txIDs []uuid.UUID) error {
	query := `
		UPDATE transactions
		SET batch_id = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND batch_id IS NULL AND NOT is_deleted
	`

	res, err := c.tx.ExecContext(ctx, query, batchID, txIDs)
	if err != nil {
		return fmt.Errorf("archiving transactions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archiving transactions: %w", err)
	}

	if n != int64(len(txIDs)) {
		return fmt.Errorf("archived %d of %d transactions", n, len(txIDs))
	}

	return nil
}
