// Package report serves read-only views over the ledger, the catalog and the batch history.
package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
)

// Dashboard is the live summary of the working set, computed exactly as a batch close would.
type Dashboard struct {
	batch.Summary
	TotalStock int64
}

// ActiveTransactionCount is the number of transactions the next batch close would archive.
func (d *Dashboard) ActiveTransactionCount() int {
	return d.TransactionCount
}

type Service struct {
	sales    *ledger.Service
	products *catalog.Service
	batches  *batch.Service
}

func NewService(sales *ledger.Service, products *catalog.Service, batches *batch.Service) *Service {
	return &Service{sales: sales, products: products, batches: batches}
}

func (s *Service) DashboardSummary(ctx context.Context) (*Dashboard, error) {
	txs, err := s.sales.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active transactions: %w", err)
	}

	// Summarize wants insertion order; listings come newest first.
	txs = slices.Clone(txs)
	slices.SortFunc(txs, func(a, b *ledger.Transaction) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	stock, err := s.products.TotalStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing stock: %w", err)
	}

	return &Dashboard{
		Summary:    batch.Summarize(txs),
		TotalStock: stock,
	}, nil
}

// BatchHistory returns archived batches, most recent first.
func (s *Service) BatchHistory(ctx context.Context) ([]*batch.Batch, error) {
	return s.batches.List(ctx)
}
