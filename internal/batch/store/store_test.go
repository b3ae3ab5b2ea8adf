package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/batch/store"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	catalogstore "github.com/MrJamesThe3rd/batchpos/internal/catalog/store"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/database/dbtest"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/batchpos/internal/ledger/store"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type fixture struct {
	products *catalog.Service
	sales    *ledger.Service
	batches  *batch.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := dbtest.Open(t)
	clk := clock.Fixed(time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC))

	return fixture{
		products: catalog.NewService(catalogstore.New(db)),
		sales:    ledger.NewService(ledgerstore.New(db), clk),
		batches:  batch.NewService(store.New(db), clk),
	}
}

func TestStore_WorkedExample(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	red, err := f.products.Create(ctx, catalog.CreateParams{ColorName: "Red", UnitPrice: 100, StockCount: 10})
	require.NoError(t, err)

	tx, err := f.sales.RecordSale(ctx, ledger.SaleParams{
		CustomerName: "A",
		Items:        []ledger.SaleItem{{ProductID: red.ID, Quantity: 3}},
		PaidAmount:   150,
	})
	require.NoError(t, err)

	_, err = f.sales.Repay(ctx, tx.ID, 150)
	require.NoError(t, err)

	b, err := f.batches.EndBatch(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Batch #1", b.Name)
	assert.Equal(t, money.Amount(300), b.TotalSales)
	assert.Equal(t, money.Amount(300), b.TotalCollected)
	assert.Equal(t, money.Amount(0), b.TotalDue)
	assert.Equal(t, map[string]int{"Red": 3}, b.ItemsSummary)
	assert.Empty(t, b.CustomerDebts)

	archived, err := f.sales.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.LifecycleArchived, archived.Lifecycle())
	assert.Equal(t, b.ID, *archived.BatchID)

	_, err = f.batches.EndBatch(ctx)
	assert.ErrorIs(t, err, apperr.ErrNothingToArchive)

	_, err = f.sales.Repay(ctx, tx.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrTransactionArchived)

	// Archived sales no longer pin the product.
	require.NoError(t, f.products.Delete(ctx, red.ID))

	stored, err := f.batches.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ItemsSummary, stored.ItemsSummary)
	assert.Equal(t, b.StartDate, stored.StartDate)
}

func TestStore_NumberingSurvivesDeletes(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	red, err := f.products.Create(ctx, catalog.CreateParams{ColorName: "Red", UnitPrice: 100, StockCount: 10})
	require.NoError(t, err)

	sell := func(customer string, paid money.Amount) *ledger.Transaction {
		tx, err := f.sales.RecordSale(ctx, ledger.SaleParams{
			CustomerName: customer,
			Items:        []ledger.SaleItem{{ProductID: red.ID, Quantity: 1}},
			PaidAmount:   paid,
		})
		require.NoError(t, err)

		return tx
	}

	sell("A", 100)

	first, err := f.batches.EndBatch(ctx)
	require.NoError(t, err)

	// A deleted sale is left out of the close, and the archived one can still be binned.
	gone := sell("B", 0)
	require.NoError(t, f.sales.SoftDelete(ctx, gone.ID))
	sell("C", 40)

	all, err := f.sales.List(ctx, ledger.ListFilter{View: ledger.ViewArchived})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, f.sales.SoftDelete(ctx, all[0].ID))

	second, err := f.batches.EndBatch(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, 1, second.TransactionCount)
	assert.Equal(t, []batch.CustomerDebt{{CustomerName: "C", Balance: 60}}, second.CustomerDebts)

	// Batch totals are frozen at close time.
	stored, err := f.batches.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(100), stored.TotalSales)

	history, err := f.batches.List(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Batch #2", history[0].Name)
}

func TestStore_ConcurrentCloses(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	red, err := f.products.Create(ctx, catalog.CreateParams{ColorName: "Red", UnitPrice: 100, StockCount: 10})
	require.NoError(t, err)

	for range 3 {
		_, err := f.sales.RecordSale(ctx, ledger.SaleParams{
			CustomerName: "A",
			Items:        []ledger.SaleItem{{ProductID: red.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup

	results := make([]error, 4)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, results[i] = f.batches.EndBatch(ctx)
		}()
	}

	wg.Wait()

	var closed int

	for _, err := range results {
		if err == nil {
			closed++
			continue
		}

		assert.ErrorIs(t, err, apperr.ErrNothingToArchive)
	}

	assert.Equal(t, 1, closed)

	history, err := f.batches.List(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].TransactionCount)
}
