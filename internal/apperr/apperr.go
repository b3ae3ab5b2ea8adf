// Package apperr holds the error taxonomy shared by the catalog, ledger and batch services.
//
// Callers match with errors.Is against the sentinels; the structured types carry the
// detail needed to report a rejection and unwrap to their sentinel.
package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOverpaymentRejected = errors.New("overpayment rejected")
	ErrNothingToArchive    = errors.New("nothing to archive")
	ErrProductInUse        = errors.New("product referenced by active transactions")
	ErrTransactionArchived = errors.New("transaction is archived")
)

// ValidationError reports a missing or invalid request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid is shorthand for building a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError provides details about a rejected stock decrement.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// OverpaymentError provides details about a repayment exceeding the outstanding balance.
// Amounts are in minor units.
type OverpaymentError struct {
	TransactionID uuid.UUID
	Balance       int64
	Requested     int64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("overpayment rejected for transaction %s: balance %d, requested %d",
		e.TransactionID, e.Balance, e.Requested)
}

func (e *OverpaymentError) Unwrap() error {
	return ErrOverpaymentRejected
}

// IsClientError reports whether err was caused by the request rather than the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrOverpaymentRejected) ||
		errors.Is(err, ErrNothingToArchive) ||
		errors.Is(err, ErrProductInUse) ||
		errors.Is(err, ErrTransactionArchived)
}
