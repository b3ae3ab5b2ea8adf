package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=batch
type Repository interface {
	ListBatches(ctx context.Context) ([]*Batch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error)

	BeginClose(ctx context.Context) (CloseTx, error)
}

// CloseTx is a single database transaction covering one batch close.
type CloseTx interface {
	// NextNumber locks the batch counter and returns the number the new batch will get.
	NextNumber(ctx context.Context) (int, error)
	// LoadActive returns the working set in insertion order, locked against changes.
	LoadActive(ctx context.Context) ([]*ledger.Transaction, error)
	CreateBatch(ctx context.Context, b *Batch) error
	Archive(ctx context.Context, batchID uuid.UUID, txIDs []uuid.UUID) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clock: clk}
}

// EndBatch archives every active transaction into a new batch. The batch insert and the
// archive flag on each transaction commit together or not at all.
func (s *Service) EndBatch(ctx context.Context) (*Batch, error) {
	closeTx, err := s.repo.BeginClose(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin close: %w", err)
	}
	defer closeTx.Rollback()

	number, err := closeTx.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next batch number: %w", err)
	}

	txs, err := closeTx.LoadActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active transactions: %w", err)
	}

	if len(txs) == 0 {
		return nil, apperr.ErrNothingToArchive
	}

	b := &Batch{
		Number:  number,
		Name:    Name(number),
		EndDate: s.clock.Today(),
		Summary: Summarize(txs),
	}

	if err := closeTx.CreateBatch(ctx, b); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	ids := make([]uuid.UUID, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
	}

	if err := closeTx.Archive(ctx, b.ID, ids); err != nil {
		return nil, fmt.Errorf("archive transactions: %w", err)
	}

	if err := closeTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit close: %w", err)
	}

	slog.Info("batch closed",
		"batch", b.Name,
		"transactions", b.TransactionCount,
		"total_sales", b.TotalSales.String(),
		"total_due", b.TotalDue.String(),
	)

	return b, nil
}

// List returns every batch, most recent first.
func (s *Service) List(ctx context.Context) ([]*Batch, error) {
	return s.repo.ListBatches(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Batch, error) {
	return s.repo.GetBatch(ctx, id)
}
