package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	catalogstore "github.com/MrJamesThe3rd/batchpos/internal/catalog/store"
	"github.com/MrJamesThe3rd/batchpos/internal/database"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
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

const selectTransactionColumns = `
	t.id, t.seq, t.customer_name, t.date, t.status, t.total_amount, t.paid_amount,
	t.note, t.is_deleted, t.batch_id, t.created_at, t.updated_at
`

// scanTransaction expects the column order of selectTransactionColumns.
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var t ledger.Transaction

	var status string

	if err := s.Scan(
		&t.ID, &t.Seq, &t.CustomerName, &t.Date, &status, &t.TotalAmount, &t.PaidAmount,
		&t.Note, &t.IsDeleted, &t.BatchID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Status = ledger.Status(status)

	return &t, nil
}

// queryTransactions runs query and attaches items and repayments to every row.
func queryTransactions(ctx context.Context, q database.Querier, query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	if err := loadDetails(ctx, q, txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func loadDetails(ctx context.Context, q database.Querier, txs []*ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(txs))
	byID := make(map[uuid.UUID]*ledger.Transaction, len(txs))

	for i, t := range txs {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	itemRows, err := q.QueryContext(ctx, `
		SELECT transaction_id, product_id, color_name, quantity, unit_price
		FROM transaction_items
		WHERE transaction_id = ANY($1::uuid[])
		ORDER BY transaction_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var txID uuid.UUID

		var item ledger.LineItem

		if err := itemRows.Scan(&txID, &item.ProductID, &item.ColorName, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}

		t := byID[txID]
		t.Items = append(t.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("iterating item rows: %w", err)
	}

	repayRows, err := q.QueryContext(ctx, `
		SELECT transaction_id, date, amount
		FROM repayments
		WHERE transaction_id = ANY($1::uuid[])
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("loading repayments: %w", err)
	}
	defer repayRows.Close()

	for repayRows.Next() {
		var txID uuid.UUID

		var r ledger.Repayment

		if err := repayRows.Scan(&txID, &r.Date, &r.Amount); err != nil {
			return fmt.Errorf("scanning repayment: %w", err)
		}

		t := byID[txID]
		t.Repayments = append(t.Repayments, r)
	}

	if err := repayRows.Err(); err != nil {
		return fmt.Errorf("iterating repayment rows: %w", err)
	}

	return nil
}

// LoadActive returns the working set in insertion order with its rows locked, so the
// caller sees a snapshot that no repayment or note edit can change before commit.
func LoadActive(ctx context.Context, q database.Querier) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.batch_id IS NULL AND NOT t.is_deleted
		ORDER BY t.seq ASC
		FOR UPDATE`

	return queryTransactions(ctx, q, query)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE t.id = $1`

	txs, err := queryTransactions(ctx, s.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("transaction %s: %w", id, apperr.ErrNotFound)
	}

	return txs[0], nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE TRUE`

	switch filter.View {
	case ledger.ViewActive:
		query += " AND t.batch_id IS NULL AND NOT t.is_deleted"
	case ledger.ViewDeleted:
		query += " AND t.is_deleted"
	case ledger.ViewArchived:
		query += " AND t.batch_id IS NOT NULL AND NOT t.is_deleted"
	}

	var args []any

	argIdx := 1

	if filter.BatchID != nil {
		query += fmt.Sprintf(" AND t.batch_id = $%d", argIdx)

		args = append(args, *filter.BatchID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, string(*filter.Status))
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY t.seq DESC"

	txs, err := queryTransactions(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET is_deleted = TRUE,
			updated_at = CASE WHEN is_deleted THEN updated_at ELSE NOW() END
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, apperr.ErrNotFound)
	}

	return nil
}

type saleTx struct {
	tx *sql.Tx
}

func (s *Store) BeginSale(ctx context.Context) (ledger.SaleTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sale tx: %w", err)
	}

	return &saleTx{tx: dbTx}, nil
}

func (stx *saleTx) Commit() error   { return stx.tx.Commit() }
func (stx *saleTx) Rollback() error { return stx.tx.Rollback() }

func (stx *saleTx) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (*catalog.Product, error) {
	return catalogstore.AdjustStock(ctx, stx.tx, productID, -qty)
}

func (stx *saleTx) CreateTransaction(ctx context.Context, t *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (customer_name, date, status, total_amount, paid_amount, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, seq, created_at, updated_at
	`

	err := stx.tx.QueryRowContext(ctx, query,
		t.CustomerName,
		t.Date,
		string(t.Status),
		t.TotalAmount,
		t.PaidAmount,
		t.Note,
	).Scan(&t.ID, &t.Seq, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	itemQuery := `
		INSERT INTO transaction_items (transaction_id, position, product_id, color_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, item := range t.Items {
		if _, err := stx.tx.ExecContext(ctx, itemQuery,
			t.ID,
			i,
			item.ProductID,
			item.ColorName,
			item.Quantity,
			item.UnitPrice,
		); err != nil {
			return fmt.Errorf("creating item %d: %w", i, err)
		}
	}

	return nil
}

type updateTx struct {
	tx *sql.Tx
}

func (s *Store) BeginUpdate(ctx context.Context) (ledger.UpdateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update tx: %w", err)
	}

	return &updateTx{tx: dbTx}, nil
}

func (utx *updateTx) Commit() error   { return utx.tx.Commit() }
func (utx *updateTx) Rollback() error { return utx.tx.Rollback() }

func (utx *updateTx) LockTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE t.id = $1 FOR UPDATE`

	t, err := scanTransaction(utx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("locking transaction: %w", err)
	}

	if err := loadDetails(ctx, utx.tx, []*ledger.Transaction{t}); err != nil {
		return nil, err
	}

	return t, nil
}

func (utx *updateTx) AddRepayment(ctx context.Context, t *ledger.Transaction, r ledger.Repayment) error {
	if _, err := utx.tx.ExecContext(ctx,
		`INSERT INTO repayments (transaction_id, date, amount) VALUES ($1, $2, $3)`,
		t.ID, r.Date, r.Amount,
	); err != nil {
		return fmt.Errorf("inserting repayment: %w", err)
	}

	query := `
		UPDATE transactions
		SET paid_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	if err := utx.tx.QueryRowContext(ctx, query, t.PaidAmount, string(t.Status), t.ID).Scan(&t.UpdatedAt); err != nil {
		return fmt.Errorf("updating paid amount: %w", err)
	}

	return nil
}

func (utx *updateTx) UpdateNote(ctx context.Context, id uuid.UUID, note string) error {
	query := `UPDATE transactions SET note = $1, updated_at = NOW() WHERE id = $2`

	if _, err := utx.tx.ExecContext(ctx, query, note, id); err != nil {
		return fmt.Errorf("updating note: %w", err)
	}

	return nil
}
