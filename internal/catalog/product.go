package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

// Product is a sellable item. ColorName doubles as the grouping key for sales reports.
type Product struct {
	ID         uuid.UUID
	ColorName  string
	UnitWeight decimal.Decimal // grams
	UnitPrice  money.Amount
	StockCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
