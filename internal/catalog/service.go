package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	CreateProducts(ctx context.Context, ps []*Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	// UpdateProduct overwrites only the non-nil fields of params in a single statement,
	// so concurrent edits to other fields and concurrent sales are kept.
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateParams) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies delta atomically and fails with an InsufficientStockError
	// instead of letting the count go negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error)
	TotalStock(ctx context.Context) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ColorName  string
	UnitWeight decimal.Decimal
	UnitPrice  money.Amount
	StockCount int
}

// UpdateParams holds the fields to change; nil fields are left untouched.
// StockCount is an absolute recount, not a delta.
type UpdateParams struct {
	ColorName  *string
	UnitWeight *decimal.Decimal
	UnitPrice  *money.Amount
	StockCount *int
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.ColorName) == "" {
		return apperr.Invalid("colorName", "must not be empty")
	}

	if p.UnitWeight.IsNegative() {
		return apperr.Invalid("unitWeight", "must not be negative")
	}

	if p.UnitPrice < 0 {
		return apperr.Invalid("unitPrice", "must not be negative")
	}

	return validateStock(p.StockCount)
}

// Stock counts are stored as 32-bit integers.
func validateStock(n int) error {
	if n < 0 {
		return apperr.Invalid("stockCount", "must not be negative")
	}

	if n > math.MaxInt32 {
		return apperr.Invalid("stockCount", fmt.Sprintf("must not exceed %d", math.MaxInt32))
	}

	return nil
}

func (p UpdateParams) validate() error {
	if p.ColorName != nil && strings.TrimSpace(*p.ColorName) == "" {
		return apperr.Invalid("colorName", "must not be empty")
	}

	if p.UnitWeight != nil && p.UnitWeight.IsNegative() {
		return apperr.Invalid("unitWeight", "must not be negative")
	}

	if p.UnitPrice != nil && *p.UnitPrice < 0 {
		return apperr.Invalid("unitPrice", "must not be negative")
	}

	if p.StockCount != nil {
		return validateStock(*p.StockCount)
	}

	return nil
}

func (p CreateParams) product() *Product {
	return &Product{
		ColorName:  strings.TrimSpace(p.ColorName),
		UnitWeight: p.UnitWeight,
		UnitPrice:  p.UnitPrice,
		StockCount: p.StockCount,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	p := params.product()
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// CreateBatch creates all products or none. A failing row is reported by its position.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Product, error) {
	if len(params) == 0 {
		return nil, apperr.Invalid("products", "must not be empty")
	}

	products := make([]*Product, len(params))

	for i, p := range params {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		products[i] = p.product()
	}

	if err := s.repo.CreateProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("create products: %w", err)
	}

	return products, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if params.ColorName != nil {
		name := strings.TrimSpace(*params.ColorName)
		params.ColorName = &name
	}

	return s.repo.UpdateProduct(ctx, id, params)
}

// Delete removes a product unless an active transaction still references it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error) {
	if delta == 0 {
		return nil, apperr.Invalid("delta", "must not be zero")
	}

	if delta > math.MaxInt32 || delta < -math.MaxInt32 {
		return nil, apperr.Invalid("delta", fmt.Sprintf("must be between %d and %d", -math.MaxInt32, math.MaxInt32))
	}

	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Service) TotalStock(ctx context.Context) (int64, error) {
	return s.repo.TotalStock(ctx)
}
