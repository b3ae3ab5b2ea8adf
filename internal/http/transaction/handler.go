package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/http/respond"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/deleted", h.listDeleted)
	r.Get("/{id}", h.get)
	r.Post("/{id}/repayments", h.repay)
	r.Put("/{id}/note", h.updateNote)
	r.Put("/{id}/delete", h.delete)
	r.Delete("/{id}", h.delete)
}

type saleItemRequest struct {
	ProductID uuid.UUID     `json:"productId"`
	Quantity  int           `json:"quantity"`
	UnitPrice *money.Amount `json:"unitPrice,omitempty"`
}

type createTransactionRequest struct {
	CustomerName string            `json:"customerName"`
	Date         string            `json:"date,omitempty"`
	Items        []saleItemRequest `json:"items"`
	PaidAmount   money.Amount      `json:"paidAmount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := ledger.SaleParams{
		CustomerName: req.CustomerName,
		Items:        make([]ledger.SaleItem, len(req.Items)),
		PaidAmount:   req.PaidAmount,
	}

	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			respond.BadRequest(w, "date must be YYYY-MM-DD")
			return
		}

		params.Date = d
	}

	for i, item := range req.Items {
		params.Items[i] = ledger.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	t, err := h.svc.RecordSale(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ledger.ListFilter{View: ledger.View(q.Get("view"))}

	if s := q.Get("status"); s != "" {
		filter.Status = new(ledger.Status(s))
	}

	if s := q.Get("batch_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.BadRequest(w, "invalid batch_id")
			return
		}

		filter.BatchID = &id
	}

	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}

		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, p.key+" must be YYYY-MM-DD")
			return
		}

		*p.dst = &d
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) listDeleted(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListDeleted(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type repayRequest struct {
	Amount money.Amount `json:"amount"`
}

func (h *Handler) repay(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req repayRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	t, err := h.svc.Repay(r.Context(), id, req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateNoteRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	t, err := h.svc.SetNote(r.Context(), id, req.Note)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.svc.SoftDelete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
