package http_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/export"
	api "github.com/MrJamesThe3rd/batchpos/internal/http"
	"github.com/MrJamesThe3rd/batchpos/internal/http/auth"
	batchHandler "github.com/MrJamesThe3rd/batchpos/internal/http/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/http/dashboard"
	"github.com/MrJamesThe3rd/batchpos/internal/http/importcsv"
	"github.com/MrJamesThe3rd/batchpos/internal/http/product"
	"github.com/MrJamesThe3rd/batchpos/internal/http/transaction"
	"github.com/MrJamesThe3rd/batchpos/internal/importer"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/report"
)

var today = time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

type mocks struct {
	ctrl    *gomock.Controller
	catalog *catalog.MockRepository
	ledger  *ledger.MockRepository
	batch   *batch.MockRepository
}

func newRouter(t *testing.T, opts api.Options) (http.Handler, mocks) {
	ctrl := gomock.NewController(t)
	clk := clock.Fixed(today)

	m := mocks{
		ctrl:    ctrl,
		catalog: catalog.NewMockRepository(ctrl),
		ledger:  ledger.NewMockRepository(ctrl),
		batch:   batch.NewMockRepository(ctrl),
	}

	var (
		catalogService = catalog.NewService(m.catalog)
		ledgerService  = ledger.NewService(m.ledger, clk)
		batchService   = batch.NewService(m.batch, clk)
		reportService  = report.NewService(ledgerService, catalogService, batchService)
		exportService  = export.NewService(batchService, ledgerService)
	)

	router := api.New(opts,
		product.NewHandler(catalogService),
		importcsv.NewHandler(importer.NewParser(), catalogService),
		transaction.NewHandler(ledgerService),
		batchHandler.NewHandler(batchService, exportService),
		dashboard.NewHandler(reportService),
	)

	return router, m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func TestRouter_CreateProduct(t *testing.T) {
	h, m := newRouter(t, api.Options{})

	m.catalog.EXPECT().
		CreateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *catalog.Product) error {
			p.ID = uuid.New()
			return nil
		})

	rec := do(t, h, http.MethodPost, "/api/v1/products",
		`{"colorName":" Red ","unitWeight":9.5,"unitPrice":1.00,"stockCount":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Red", body["colorName"])
	assert.InDelta(t, 9.5, body["unitWeight"], 0.0001)
	assert.InDelta(t, 1.0, body["unitPrice"], 0.0001)
	assert.InDelta(t, 10, body["stockCount"], 0.0001)
}

func TestRouter_RecordSale(t *testing.T) {
	h, m := newRouter(t, api.Options{})

	red := &catalog.Product{ID: uuid.New(), ColorName: "Red", UnitPrice: 100, StockCount: 7}
	stx := ledger.NewMockSaleTx(m.ctrl)

	m.ledger.EXPECT().BeginSale(gomock.Any()).Return(stx, nil)
	stx.EXPECT().DecrementStock(gomock.Any(), red.ID, 3).Return(red, nil)
	stx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	stx.EXPECT().Commit().Return(nil)
	stx.EXPECT().Rollback().Return(nil).AnyTimes()

	rec := do(t, h, http.MethodPost, "/api/v1/transactions",
		`{"customerName":"Alice","items":[{"productId":"`+red.ID.String()+`","quantity":3}],"paidAmount":1.5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Partial", body["status"])
	assert.Equal(t, "2024-05-31", body["date"])
	assert.Equal(t, "active", body["lifecycle"])
	assert.InDelta(t, 3.0, body["totalAmount"], 0.0001)
	assert.InDelta(t, 1.5, body["balance"], 0.0001)
}

func TestRouter_Errors(t *testing.T) {
	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		setupMock  func(m mocks)
		wantStatus int
		wantBody   map[string]any
	}

	id := uuid.New()

	tests := []testCase{
		{
			name:       "ValidationError",
			method:     http.MethodPost,
			path:       "/api/v1/transactions",
			body:       `{"customerName":"  ","items":[]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"field": "customerName"},
		},
		{
			name:       "MalformedAmount",
			method:     http.MethodPost,
			path:       "/api/v1/transactions/" + id.String() + "/repayments",
			body:       `{"amount":1.005}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "InvalidID",
			method:     http.MethodGet,
			path:       "/api/v1/transactions/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid id"},
		},
		{
			name:   "NotFound",
			method: http.MethodGet,
			path:   "/api/v1/transactions/" + id.String(),
			setupMock: func(m mocks) {
				m.ledger.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, apperr.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "Overpayment",
			method: http.MethodPost,
			path:   "/api/v1/transactions/" + id.String() + "/repayments",
			body:   `{"amount":2}`,
			setupMock: func(m mocks) {
				utx := ledger.NewMockUpdateTx(m.ctrl)
				m.ledger.EXPECT().BeginUpdate(gomock.Any()).Return(utx, nil)
				utx.EXPECT().LockTransaction(gomock.Any(), id).
					Return(&ledger.Transaction{ID: id, TotalAmount: 300, PaidAmount: 200}, nil)
				utx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   map[string]any{"balance": 1.0, "requested": 2.0},
		},
		{
			name:   "InsufficientStock",
			method: http.MethodPost,
			path:   "/api/v1/products/" + id.String() + "/stock",
			body:   `{"delta":-5}`,
			setupMock: func(m mocks) {
				m.catalog.EXPECT().AdjustStock(gomock.Any(), id, -5).
					Return(nil, &apperr.InsufficientStockError{ProductID: id, Available: 2, Requested: 5})
			},
			wantStatus: http.StatusConflict,
			wantBody:   map[string]any{"available": 2.0, "requested": 5.0},
		},
		{
			name:   "ProductInUse",
			method: http.MethodDelete,
			path:   "/api/v1/products/" + id.String(),
			setupMock: func(m mocks) {
				m.catalog.EXPECT().DeleteProduct(gomock.Any(), id).Return(apperr.ErrProductInUse)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "NothingToArchive",
			method: http.MethodPost,
			path:   "/api/v1/batches/end",
			setupMock: func(m mocks) {
				closeTx := batch.NewMockCloseTx(m.ctrl)
				m.batch.EXPECT().BeginClose(gomock.Any()).Return(closeTx, nil)
				closeTx.EXPECT().NextNumber(gomock.Any()).Return(1, nil)
				closeTx.EXPECT().LoadActive(gomock.Any()).Return(nil, nil)
				closeTx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusConflict,
			wantBody:   map[string]any{"error": "nothing to archive"},
		},
		{
			name:   "ArchivedNote",
			method: http.MethodPut,
			path:   "/api/v1/transactions/" + id.String() + "/note",
			body:   `{"note":"late"}`,
			setupMock: func(m mocks) {
				utx := ledger.NewMockUpdateTx(m.ctrl)
				batchID := uuid.New()
				m.ledger.EXPECT().BeginUpdate(gomock.Any()).Return(utx, nil)
				utx.EXPECT().LockTransaction(gomock.Any(), id).Return(&ledger.Transaction{ID: id, BatchID: &batchID}, nil)
				utx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "InternalError",
			method: http.MethodGet,
			path:   "/api/v1/dashboard",
			setupMock: func(m mocks) {
				m.ledger.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newRouter(t, api.Options{})
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			rec := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode(t, rec)
			assert.NotEmpty(t, body["error"])

			for k, v := range tt.wantBody {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}

func TestRouter_SoftDeleteRoutes(t *testing.T) {
	for _, tc := range []struct{ method, suffix string }{
		{http.MethodPut, "/delete"},
		{http.MethodDelete, ""},
	} {
		t.Run(tc.method, func(t *testing.T) {
			h, m := newRouter(t, api.Options{})
			id := uuid.New()

			m.ledger.EXPECT().SoftDelete(gomock.Any(), id).Return(nil)

			rec := do(t, h, tc.method, "/api/v1/transactions/"+id.String()+tc.suffix, "")
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}

func TestRouter_ListTransactions(t *testing.T) {
	h, m := newRouter(t, api.Options{})

	m.ledger.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f ledger.ListFilter) ([]*ledger.Transaction, error) {
			assert.Equal(t, ledger.ViewArchived, f.View)
			require.NotNil(t, f.Status)
			assert.Equal(t, ledger.StatusCredit, *f.Status)
			require.NotNil(t, f.StartDate)
			assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)

			return []*ledger.Transaction{}, nil
		})

	rec := do(t, h, http.MethodGet, "/api/v1/transactions?view=archived&status=Credit&start_date=2024-05-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/transactions?start_date=31/05/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Auth(t *testing.T) {
	secret := "s3cret"
	h, m := newRouter(t, api.Options{JWTSecret: secret})

	rec := do(t, h, http.MethodGet, "/api/v1/batches", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.Mint([]byte(secret), "till-1", time.Hour, time.Now())
	require.NoError(t, err)

	m.batch.EXPECT().ListBatches(gomock.Any()).Return([]*batch.Batch{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_ExportZip(t *testing.T) {
	h, m := newRouter(t, api.Options{})

	b := &batch.Batch{
		ID:      uuid.New(),
		Number:  2,
		Name:    "Batch #2",
		EndDate: today,
		Summary: batch.Summary{
			StartDate:        today,
			TotalSales:       300,
			TotalCollected:   300,
			TransactionCount: 1,
			ItemsSummary:     map[string]int{"Red": 3},
			CustomerDebts:    []batch.CustomerDebt{},
		},
	}

	m.batch.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)
	m.ledger.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*ledger.Transaction{}, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/batches/"+b.ID.String()+"/export?format=zip", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "batch_2_20240531.zip")

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "report.csv", zr.File[0].Name)
	assert.Equal(t, "summary.txt", zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)

	defer f.Close()

	summary, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "No outstanding debts")
}

func TestRouter_ImportProducts(t *testing.T) {
	h, m := newRouter(t, api.Options{})

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "products.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("colorName;unitPrice;stockCount\nRed;1,00;10\nBlue;2,50;4\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	m.catalog.EXPECT().CreateProducts(gomock.Any(), gomock.Len(2)).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.InDelta(t, 2, body["imported"], 0.0001)
	assert.Equal(t, "UTF-8", body["charset"])
}
