package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type CustomerDebt struct {
	CustomerName string       `json:"customerName"`
	Balance      money.Amount `json:"balance"`
}

// Summary is the aggregate of a set of transactions. The dashboard and batch close both
// build it with Summarize, so live and archived numbers always agree.
type Summary struct {
	StartDate        time.Time // date of the first transaction by insertion order
	TotalSales       money.Amount
	TotalCollected   money.Amount
	TotalDue         money.Amount
	TransactionCount int
	ItemsSummary     map[string]int // colorName -> quantity sold
	CustomerDebts    []CustomerDebt
}

// Batch is an archived, immutable snapshot of a closed working set.
type Batch struct {
	ID      uuid.UUID
	Number  int
	Name    string
	EndDate time.Time
	Summary
	CreatedAt time.Time
}

func Name(number int) string {
	return fmt.Sprintf("Batch #%d", number)
}

// Summarize aggregates txs, which must be in insertion order.
func Summarize(txs []*ledger.Transaction) Summary {
	s := Summary{
		ItemsSummary:  make(map[string]int),
		CustomerDebts: []CustomerDebt{},
	}

	for i, t := range txs {
		if i == 0 {
			s.StartDate = t.Date
		}

		s.TotalSales += t.TotalAmount
		s.TotalCollected += t.PaidAmount
		s.TransactionCount++

		for _, item := range t.Items {
			s.ItemsSummary[item.ColorName] += item.Quantity
		}

		if balance := t.Balance(); balance > 0 {
			s.CustomerDebts = append(s.CustomerDebts, CustomerDebt{
				CustomerName: t.CustomerName,
				Balance:      balance,
			})
		}
	}

	s.TotalDue = s.TotalSales - s.TotalCollected

	return s
}
