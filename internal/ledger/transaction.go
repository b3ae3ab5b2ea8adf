package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

// Status is the payment state of a transaction. It is always derived, never set directly.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusCredit  Status = "Credit"
	StatusPartial Status = "Partial"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusCredit, StatusPartial:
		return true
	}

	return false
}

// DeriveStatus maps paid and total to a status. The Paid check runs first, so a zero-total
// sale is Paid rather than Credit.
func DeriveStatus(paid, total money.Amount) Status {
	switch {
	case paid >= total:
		return StatusPaid
	case paid == 0:
		return StatusCredit
	default:
		return StatusPartial
	}
}

// Lifecycle combines the deleted and archived flags into a single state.
type Lifecycle string

const (
	LifecycleActive          Lifecycle = "active"
	LifecycleDeleted         Lifecycle = "deleted"
	LifecycleArchived        Lifecycle = "archived"
	LifecycleDeletedArchived Lifecycle = "deleted_archived"
)

// LineItem is a sold product. ColorName and UnitPrice are snapshots taken at sale time;
// ProductID is nil once the product has been removed from the catalog.
type LineItem struct {
	ProductID *uuid.UUID
	ColorName string
	Quantity  int
	UnitPrice money.Amount
}

// Subtotal fails with money.ErrOutOfRange when the line total does not fit in an Amount.
func (i LineItem) Subtotal() (money.Amount, error) {
	return i.UnitPrice.Mul(i.Quantity)
}

type Repayment struct {
	Date   time.Time
	Amount money.Amount
}

// Transaction is a recorded sale.
type Transaction struct {
	ID           uuid.UUID
	Seq          int64 // insertion order
	CustomerName string
	Date         time.Time
	Status       Status
	TotalAmount  money.Amount
	PaidAmount   money.Amount
	Items        []LineItem
	Repayments   []Repayment
	Note         string
	IsDeleted    bool
	BatchID      *uuid.UUID // set once, when the transaction is archived
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Transaction) Balance() money.Amount {
	return t.TotalAmount - t.PaidAmount
}

func (t *Transaction) IsArchived() bool {
	return t.BatchID != nil
}

// IsActive reports whether the transaction still belongs to the working set.
func (t *Transaction) IsActive() bool {
	return !t.IsDeleted && !t.IsArchived()
}

func (t *Transaction) Lifecycle() Lifecycle {
	switch {
	case t.IsDeleted && t.IsArchived():
		return LifecycleDeletedArchived
	case t.IsDeleted:
		return LifecycleDeleted
	case t.IsArchived():
		return LifecycleArchived
	default:
		return LifecycleActive
	}
}
