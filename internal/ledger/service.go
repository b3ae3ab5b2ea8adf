package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// SoftDelete marks the transaction deleted. Deleting twice is not an error.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	BeginSale(ctx context.Context) (SaleTx, error)
	BeginUpdate(ctx context.Context) (UpdateTx, error)
}

// SaleTx groups the stock decrements and the insert of one sale so they commit together.
type SaleTx interface {
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (*catalog.Product, error)
	CreateTransaction(ctx context.Context, t *Transaction) error
	Commit() error
	Rollback() error
}

// UpdateTx holds a row lock on a transaction until Commit or Rollback.
type UpdateTx interface {
	LockTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	AddRepayment(ctx context.Context, t *Transaction, r Repayment) error
	UpdateNote(ctx context.Context, id uuid.UUID, note string) error
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

type SaleItem struct {
	ProductID uuid.UUID
	Quantity  int
	// UnitPrice is the price shown at the till. When nil the current catalog price is used.
	UnitPrice *money.Amount
}

type SaleParams struct {
	CustomerName string
	Date         time.Time // defaults to today
	Items        []SaleItem
	PaidAmount   money.Amount
}

// View selects transactions by lifecycle.
type View string

const (
	ViewActive   View = "active"
	ViewDeleted  View = "deleted"
	ViewArchived View = "archived"
	ViewAll      View = "all"
)

func (v View) Valid() bool {
	switch v {
	case ViewActive, ViewDeleted, ViewArchived, ViewAll:
		return true
	}

	return false
}

type ListFilter struct {
	View      View
	BatchID   *uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

func (p SaleParams) validate() error {
	if strings.TrimSpace(p.CustomerName) == "" {
		return apperr.Invalid("customerName", "must not be empty")
	}

	if len(p.Items) == 0 {
		return apperr.Invalid("items", "must not be empty")
	}

	perProduct := make(map[uuid.UUID]int, len(p.Items))

	for i, item := range p.Items {
		if item.ProductID == uuid.Nil {
			return apperr.Invalid(fmt.Sprintf("items[%d].productId", i), "is required")
		}

		if item.Quantity <= 0 {
			return apperr.Invalid(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}

		// Stock counts are 32-bit, also once lines for the same product are summed.
		perProduct[item.ProductID] += item.Quantity
		if item.Quantity > math.MaxInt32 || perProduct[item.ProductID] > math.MaxInt32 {
			return apperr.Invalid(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("must not exceed %d", math.MaxInt32))
		}

		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return apperr.Invalid(fmt.Sprintf("items[%d].unitPrice", i), "must not be negative")
		}
	}

	if p.PaidAmount < 0 {
		return apperr.Invalid("paidAmount", "must not be negative")
	}

	return nil
}

// RecordSale decrements stock for every item and stores the transaction as one unit.
// A failure on any item leaves stock and the ledger untouched.
func (s *Service) RecordSale(ctx context.Context, params SaleParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	// Lock products in a fixed order so two multi-item sales cannot deadlock.
	qty := make(map[uuid.UUID]int, len(params.Items))
	for _, item := range params.Items {
		qty[item.ProductID] += item.Quantity
	}

	ids := make([]uuid.UUID, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })

	stx, err := s.repo.BeginSale(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin sale: %w", err)
	}
	defer stx.Rollback()

	products := make(map[uuid.UUID]*catalog.Product, len(ids))

	for _, id := range ids {
		p, err := stx.DecrementStock(ctx, id, qty[id])
		if err != nil {
			if errors.Is(err, apperr.ErrInsufficientStock) {
				slog.Warn("sale rejected", "customer", params.CustomerName, "error", err)
			}

			return nil, err
		}

		products[id] = p
	}

	t := &Transaction{
		CustomerName: strings.TrimSpace(params.CustomerName),
		Date:         params.Date,
		PaidAmount:   params.PaidAmount,
		Items:        make([]LineItem, len(params.Items)),
	}

	if t.Date.IsZero() {
		t.Date = s.clock.Today()
	} else {
		t.Date = clock.Day(t.Date)
	}

	for i, item := range params.Items {
		p := products[item.ProductID]

		price := p.UnitPrice
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}

		t.Items[i] = LineItem{
			ProductID: &p.ID,
			ColorName: p.ColorName,
			Quantity:  item.Quantity,
			UnitPrice: price,
		}

		sub, err := t.Items[i].Subtotal()
		if err == nil {
			t.TotalAmount, err = t.TotalAmount.Add(sub)
		}

		if err != nil {
			return nil, apperr.Invalid(fmt.Sprintf("items[%d].unitPrice", i), "sale total is too large")
		}
	}

	if t.PaidAmount > t.TotalAmount {
		return nil, apperr.Invalid("paidAmount", "must not exceed total amount")
	}

	t.Status = DeriveStatus(t.PaidAmount, t.TotalAmount)

	if err := stx.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	return t, nil
}

// Repay records a payment against the outstanding balance. Repayments on the same
// transaction are serialized by the row lock held for the duration of the call.
func (s *Service) Repay(ctx context.Context, id uuid.UUID, amount money.Amount) (*Transaction, error) {
	if amount <= 0 {
		return nil, apperr.Invalid("amount", "must be positive")
	}

	utx, err := s.repo.BeginUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer utx.Rollback()

	t, err := utx.LockTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.IsArchived() {
		return nil, fmt.Errorf("transaction %s: %w", id, apperr.ErrTransactionArchived)
	}

	if amount > t.Balance() {
		return nil, &apperr.OverpaymentError{
			TransactionID: id,
			Balance:       int64(t.Balance()),
			Requested:     int64(amount),
		}
	}

	r := Repayment{Date: s.clock.Today(), Amount: amount}

	t.PaidAmount += amount
	t.Status = DeriveStatus(t.PaidAmount, t.TotalAmount)
	t.Repayments = append(t.Repayments, r)

	if err := utx.AddRepayment(ctx, t, r); err != nil {
		return nil, fmt.Errorf("add repayment: %w", err)
	}

	if err := utx.Commit(); err != nil {
		return nil, fmt.Errorf("commit repayment: %w", err)
	}

	return t, nil
}

// SetNote replaces the note of a transaction that has not been archived.
func (s *Service) SetNote(ctx context.Context, id uuid.UUID, note string) (*Transaction, error) {
	utx, err := s.repo.BeginUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer utx.Rollback()

	t, err := utx.LockTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.IsArchived() {
		return nil, fmt.Errorf("transaction %s: %w", id, apperr.ErrTransactionArchived)
	}

	if err := utx.UpdateNote(ctx, id, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	if err := utx.Commit(); err != nil {
		return nil, fmt.Errorf("commit note: %w", err)
	}

	t.Note = note

	return t, nil
}

// SoftDelete moves a transaction to the recycle bin. Stock is not restored.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{View: ViewActive})
}

// ListDeleted returns the recycle bin, archived or not.
func (s *Service) ListDeleted(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{View: ViewDeleted})
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.View == "" {
		filter.View = ViewActive
	}

	if !filter.View.Valid() {
		return nil, apperr.Invalid("view", fmt.Sprintf("unknown view %q", filter.View))
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.Invalid("status", fmt.Sprintf("unknown status %q", *filter.Status))
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperr.Invalid("endDate", "must not be before start date")
	}

	return s.repo.ListTransactions(ctx, filter)
}
