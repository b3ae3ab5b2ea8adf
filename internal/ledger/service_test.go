package ledger_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

var today = time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)

func newService(repo ledger.Repository) *ledger.Service {
	return ledger.NewService(repo, clock.Fixed(today))
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  money.Amount
		total money.Amount
		want  ledger.Status
	}{
		{name: "FullyPaid", paid: 300, total: 300, want: ledger.StatusPaid},
		{name: "NothingPaid", paid: 0, total: 300, want: ledger.StatusCredit},
		{name: "SomePaid", paid: 150, total: 300, want: ledger.StatusPartial},
		{name: "ZeroTotal", paid: 0, total: 0, want: ledger.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.DeriveStatus(tt.paid, tt.total))
		})
	}
}

func TestTransaction_Lifecycle(t *testing.T) {
	batchID := uuid.New()

	tests := []struct {
		name string
		tx   ledger.Transaction
		want ledger.Lifecycle
	}{
		{name: "Active", tx: ledger.Transaction{}, want: ledger.LifecycleActive},
		{name: "Deleted", tx: ledger.Transaction{IsDeleted: true}, want: ledger.LifecycleDeleted},
		{name: "Archived", tx: ledger.Transaction{BatchID: &batchID}, want: ledger.LifecycleArchived},
		{name: "DeletedArchived", tx: ledger.Transaction{IsDeleted: true, BatchID: &batchID}, want: ledger.LifecycleDeletedArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.Lifecycle())
			assert.Equal(t, tt.want == ledger.LifecycleActive, tt.tx.IsActive())
		})
	}
}

func TestService_RecordSale_Validation(t *testing.T) {
	productID := uuid.New()
	negative := money.Amount(-1)

	tests := []struct {
		name      string
		params    ledger.SaleParams
		wantField string
	}{
		{
			name:      "EmptyCustomer",
			params:    ledger.SaleParams{CustomerName: "   ", Items: []ledger.SaleItem{{ProductID: productID, Quantity: 1}}},
			wantField: "customerName",
		},
		{
			name:      "NoItems",
			params:    ledger.SaleParams{CustomerName: "A"},
			wantField: "items",
		},
		{
			name:      "ZeroQuantity",
			params:    ledger.SaleParams{CustomerName: "A", Items: []ledger.SaleItem{{ProductID: productID, Quantity: 0}}},
			wantField: "items[0].quantity",
		},
		{
			name:      "MissingProduct",
			params:    ledger.SaleParams{CustomerName: "A", Items: []ledger.SaleItem{{Quantity: 1}}},
			wantField: "items[0].productId",
		},
		{
			name:      "NegativePrice",
			params:    ledger.SaleParams{CustomerName: "A", Items: []ledger.SaleItem{{ProductID: productID, Quantity: 1, UnitPrice: &negative}}},
			wantField: "items[0].unitPrice",
		},
		{
			name:      "QuantityAboveInt32",
			params:    ledger.SaleParams{CustomerName: "A", Items: []ledger.SaleItem{{ProductID: productID, Quantity: math.MaxInt32 + 1}}},
			wantField: "items[0].quantity",
		},
		{
			name: "MergedQuantityAboveInt32",
			params: ledger.SaleParams{CustomerName: "A", Items: []ledger.SaleItem{
				{ProductID: productID, Quantity: math.MaxInt32},
				{ProductID: productID, Quantity: 1},
			}},
			wantField: "items[1].quantity",
		},
		{
			name:      "NegativePaid",
			params:    ledger.SaleParams{CustomerName: "A", Items: []ledger.SaleItem{{ProductID: productID, Quantity: 1}}, PaidAmount: -5},
			wantField: "paidAmount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No repository call is expected: validation happens before any mutation.
			repo := ledger.NewMockRepository(ctrl)

			got, err := newService(repo).RecordSale(context.Background(), tt.params)
			assert.Nil(t, got)

			var vErr *apperr.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestService_RecordSale(t *testing.T) {
	red := &catalog.Product{ID: uuid.New(), ColorName: "Red", UnitPrice: 100, StockCount: 7}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	stx := ledger.NewMockSaleTx(ctrl)

	repo.EXPECT().BeginSale(gomock.Any()).Return(stx, nil)
	stx.EXPECT().DecrementStock(gomock.Any(), red.ID, 3).Return(red, nil)
	stx.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			tx.ID = uuid.New()
			tx.Seq = 1
			return nil
		})
	stx.EXPECT().Commit().Return(nil)
	stx.EXPECT().Rollback().Return(nil).AnyTimes()

	got, err := newService(repo).RecordSale(context.Background(), ledger.SaleParams{
		CustomerName: " A ",
		Items:        []ledger.SaleItem{{ProductID: red.ID, Quantity: 3}},
		PaidAmount:   150,
	})
	require.NoError(t, err)

	assert.Equal(t, "A", got.CustomerName)
	assert.Equal(t, money.Amount(300), got.TotalAmount)
	assert.Equal(t, money.Amount(150), got.Balance())
	assert.Equal(t, ledger.StatusPartial, got.Status)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), got.Date)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Red", got.Items[0].ColorName)
	assert.Equal(t, red.ID, *got.Items[0].ProductID)
}

func TestService_RecordSale_SnapshotsCallerPrice(t *testing.T) {
	red := &catalog.Product{ID: uuid.New(), ColorName: "Red", UnitPrice: 100}
	till := money.Amount(90)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	stx := ledger.NewMockSaleTx(ctrl)

	repo.EXPECT().BeginSale(gomock.Any()).Return(stx, nil)
	stx.EXPECT().DecrementStock(gomock.Any(), red.ID, 2).Return(red, nil)
	stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	stx.EXPECT().Commit().Return(nil)
	stx.EXPECT().Rollback().Return(nil).AnyTimes()

	got, err := newService(repo).RecordSale(context.Background(), ledger.SaleParams{
		CustomerName: "B",
		Date:         time.Date(2024, 4, 30, 18, 30, 0, 0, time.UTC),
		Items:        []ledger.SaleItem{{ProductID: red.ID, Quantity: 2, UnitPrice: &till}},
	})
	require.NoError(t, err)

	assert.Equal(t, money.Amount(180), got.TotalAmount)
	assert.Equal(t, ledger.StatusCredit, got.Status)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), got.Date)
}

func TestService_RecordSale_AggregatesPerProduct(t *testing.T) {
	red := &catalog.Product{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), ColorName: "Red", UnitPrice: 100}
	blue := &catalog.Product{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), ColorName: "Blue", UnitPrice: 50}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	stx := ledger.NewMockSaleTx(ctrl)

	repo.EXPECT().BeginSale(gomock.Any()).Return(stx, nil)
	gomock.InOrder(
		stx.EXPECT().DecrementStock(gomock.Any(), blue.ID, 1).Return(blue, nil),
		stx.EXPECT().DecrementStock(gomock.Any(), red.ID, 5).Return(red, nil),
	)
	stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	stx.EXPECT().Commit().Return(nil)
	stx.EXPECT().Rollback().Return(nil).AnyTimes()

	got, err := newService(repo).RecordSale(context.Background(), ledger.SaleParams{
		CustomerName: "C",
		Items: []ledger.SaleItem{
			{ProductID: red.ID, Quantity: 2},
			{ProductID: blue.ID, Quantity: 1},
			{ProductID: red.ID, Quantity: 3},
		},
		PaidAmount: 550,
	})
	require.NoError(t, err)

	assert.Len(t, got.Items, 3)
	assert.Equal(t, money.Amount(550), got.TotalAmount)
	assert.Equal(t, ledger.StatusPaid, got.Status)
}

func TestService_RecordSale_Rejected(t *testing.T) {
	red := &catalog.Product{ID: uuid.New(), ColorName: "Red", UnitPrice: 100}

	tests := []struct {
		name      string
		paid      money.Amount
		decrement func(m *ledger.MockSaleTx)
		wantErr   error
	}{
		{
			name: "InsufficientStock",
			decrement: func(m *ledger.MockSaleTx) {
				m.EXPECT().
					DecrementStock(gomock.Any(), red.ID, 3).
					Return(nil, &apperr.InsufficientStockError{ProductID: red.ID, Available: 2, Requested: 3})
			},
			wantErr: apperr.ErrInsufficientStock,
		},
		{
			name: "UnknownProduct",
			decrement: func(m *ledger.MockSaleTx) {
				m.EXPECT().DecrementStock(gomock.Any(), red.ID, 3).Return(nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "PaidExceedsTotal",
			paid: 301,
			decrement: func(m *ledger.MockSaleTx) {
				m.EXPECT().DecrementStock(gomock.Any(), red.ID, 3).Return(red, nil)
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			stx := ledger.NewMockSaleTx(ctrl)

			repo.EXPECT().BeginSale(gomock.Any()).Return(stx, nil)
			tt.decrement(stx)
			// Neither CreateTransaction nor Commit may run; the decrements are rolled back.
			stx.EXPECT().Rollback().Return(nil).Times(1)

			got, err := newService(repo).RecordSale(context.Background(), ledger.SaleParams{
				CustomerName: "A",
				Items:        []ledger.SaleItem{{ProductID: red.ID, Quantity: 3}},
				PaidAmount:   tt.paid,
			})

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_RecordSale_TotalTooLarge(t *testing.T) {
	red := &catalog.Product{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), ColorName: "Red", UnitPrice: 100}
	blue := &catalog.Product{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), ColorName: "Blue", UnitPrice: 100}
	huge := money.Amount(4611686018427387938)
	half := money.Amount(math.MaxInt64/2 + 1)

	tests := []struct {
		name      string
		items     []ledger.SaleItem
		wantField string
	}{
		{
			name:      "LineOverflows",
			items:     []ledger.SaleItem{{ProductID: red.ID, Quantity: 4, UnitPrice: &huge}},
			wantField: "items[0].unitPrice",
		},
		{
			name: "SumOverflows",
			items: []ledger.SaleItem{
				{ProductID: red.ID, Quantity: 1, UnitPrice: &half},
				{ProductID: blue.ID, Quantity: 1, UnitPrice: &half},
			},
			wantField: "items[1].unitPrice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			stx := ledger.NewMockSaleTx(ctrl)

			repo.EXPECT().BeginSale(gomock.Any()).Return(stx, nil)
			stx.EXPECT().DecrementStock(gomock.Any(), red.ID, gomock.Any()).Return(red, nil)
			stx.EXPECT().DecrementStock(gomock.Any(), blue.ID, gomock.Any()).Return(blue, nil).MaxTimes(1)
			stx.EXPECT().Rollback().Return(nil).Times(1)

			got, err := newService(repo).RecordSale(context.Background(), ledger.SaleParams{
				CustomerName: "A",
				Items:        tt.items,
			})
			assert.Nil(t, got)

			var vErr *apperr.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestService_Repay(t *testing.T) {
	id := uuid.New()
	batchID := uuid.New()

	type testCase struct {
		name       string
		amount     money.Amount
		locked     *ledger.Transaction
		lockErr    error
		wantErr    error
		wantPaid   money.Amount
		wantStatus ledger.Status
	}

	tests := []testCase{
		{
			name:       "SettlesBalance",
			amount:     150,
			locked:     &ledger.Transaction{ID: id, TotalAmount: 300, PaidAmount: 150, Status: ledger.StatusPartial},
			wantPaid:   300,
			wantStatus: ledger.StatusPaid,
		},
		{
			name:       "CreditBecomesPartial",
			amount:     100,
			locked:     &ledger.Transaction{ID: id, TotalAmount: 300, Status: ledger.StatusCredit},
			wantPaid:   100,
			wantStatus: ledger.StatusPartial,
		},
		{
			name:    "Overpayment",
			amount:  151,
			locked:  &ledger.Transaction{ID: id, TotalAmount: 300, PaidAmount: 150, Status: ledger.StatusPartial},
			wantErr: apperr.ErrOverpaymentRejected,
		},
		{
			name:    "Overflow",
			amount:  money.Amount(math.MaxInt64 - 100),
			locked:  &ledger.Transaction{ID: id, TotalAmount: 300, PaidAmount: 150, Status: ledger.StatusPartial},
			wantErr: apperr.ErrOverpaymentRejected,
		},
		{
			name:    "Archived",
			amount:  10,
			locked:  &ledger.Transaction{ID: id, TotalAmount: 300, BatchID: &batchID},
			wantErr: apperr.ErrTransactionArchived,
		},
		{
			name:    "NotFound",
			amount:  10,
			lockErr: apperr.ErrNotFound,
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			utx := ledger.NewMockUpdateTx(ctrl)

			repo.EXPECT().BeginUpdate(gomock.Any()).Return(utx, nil)
			utx.EXPECT().LockTransaction(gomock.Any(), id).Return(tt.locked, tt.lockErr)
			utx.EXPECT().Rollback().Return(nil).AnyTimes()

			if tt.wantErr == nil {
				utx.EXPECT().
					AddRepayment(gomock.Any(), gomock.Any(), ledger.Repayment{
						Date:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
						Amount: tt.amount,
					}).
					Return(nil)
				utx.EXPECT().Commit().Return(nil)
			}

			got, err := newService(repo).Repay(context.Background(), id, tt.amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, got.PaidAmount)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Len(t, got.Repayments, 1)
		})
	}
}

func TestService_Repay_OverpaymentDetail(t *testing.T) {
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	utx := ledger.NewMockUpdateTx(ctrl)

	repo.EXPECT().BeginUpdate(gomock.Any()).Return(utx, nil)
	utx.EXPECT().LockTransaction(gomock.Any(), id).Return(&ledger.Transaction{ID: id, TotalAmount: 300, PaidAmount: 250}, nil)
	utx.EXPECT().Rollback().Return(nil)

	_, err := newService(repo).Repay(context.Background(), id, 100)

	var oErr *apperr.OverpaymentError
	require.ErrorAs(t, err, &oErr)
	assert.Equal(t, int64(50), oErr.Balance)
	assert.Equal(t, int64(100), oErr.Requested)
}

func TestService_Repay_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)

	for _, amount := range []money.Amount{0, -10} {
		_, err := newService(repo).Repay(context.Background(), uuid.New(), amount)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestService_SetNote(t *testing.T) {
	id := uuid.New()
	batchID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		utx := ledger.NewMockUpdateTx(ctrl)

		repo.EXPECT().BeginUpdate(gomock.Any()).Return(utx, nil)
		utx.EXPECT().LockTransaction(gomock.Any(), id).Return(&ledger.Transaction{ID: id, Note: "old"}, nil)
		utx.EXPECT().UpdateNote(gomock.Any(), id, "call back friday").Return(nil)
		utx.EXPECT().Commit().Return(nil)
		utx.EXPECT().Rollback().Return(nil).AnyTimes()

		got, err := newService(repo).SetNote(context.Background(), id, "call back friday")
		require.NoError(t, err)
		assert.Equal(t, "call back friday", got.Note)
	})

	t.Run("Archived", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		utx := ledger.NewMockUpdateTx(ctrl)

		repo.EXPECT().BeginUpdate(gomock.Any()).Return(utx, nil)
		utx.EXPECT().LockTransaction(gomock.Any(), id).Return(&ledger.Transaction{ID: id, BatchID: &batchID}, nil)
		utx.EXPECT().Rollback().Return(nil)

		_, err := newService(repo).SetNote(context.Background(), id, "x")
		assert.ErrorIs(t, err, apperr.ErrTransactionArchived)
	})
}

func TestService_SoftDelete(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		repoErr error
		wantErr bool
	}{
		{name: "Success"},
		{name: "NotFound", repoErr: apperr.ErrNotFound, wantErr: true},
		{name: "DBError", repoErr: errors.New("db error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			repo.EXPECT().SoftDelete(gomock.Any(), id).Return(tt.repoErr)

			err := newService(repo).SoftDelete(context.Background(), id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_List(t *testing.T) {
	paid := ledger.StatusPaid
	bogus := ledger.Status("Settled")
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		filter    ledger.ListFilter
		setupMock func(m *ledger.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "DefaultsToActive",
			filter: ledger.ListFilter{Status: &paid},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), ledger.ListFilter{View: ledger.ViewActive, Status: &paid}).
					Return([]*ledger.Transaction{{ID: uuid.New()}}, nil)
			},
		},
		{name: "UnknownView", filter: ledger.ListFilter{View: "trash"}, wantErr: true},
		{name: "UnknownStatus", filter: ledger.ListFilter{Status: &bogus}, wantErr: true},
		{name: "InvertedRange", filter: ledger.ListFilter{StartDate: &start, EndDate: &end}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo).List(context.Background(), tt.filter)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestService_ListActiveAndDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), ledger.ListFilter{View: ledger.ViewActive}).Return(nil, nil)
	repo.EXPECT().ListTransactions(gomock.Any(), ledger.ListFilter{View: ledger.ViewDeleted}).Return(nil, nil)

	svc := newService(repo)

	_, err := svc.ListActive(context.Background())
	require.NoError(t, err)

	_, err = svc.ListDeleted(context.Background())
	require.NoError(t, err)
}
