package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/http/respond"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/stock", h.adjustStock)
}

type createProductRequest struct {
	ColorName  string          `json:"colorName"`
	UnitWeight decimal.Decimal `json:"unitWeight"`
	UnitPrice  money.Amount    `json:"unitPrice"`
	StockCount int             `json:"stockCount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), catalog.CreateParams{
		ColorName:  req.ColorName,
		UnitWeight: req.UnitWeight,
		UnitPrice:  req.UnitPrice,
		StockCount: req.StockCount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(ps))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateProductRequest struct {
	ColorName  *string          `json:"colorName,omitempty"`
	UnitWeight *decimal.Decimal `json:"unitWeight,omitempty"`
	UnitPrice  *money.Amount    `json:"unitPrice,omitempty"`
	StockCount *int             `json:"stockCount,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateProductRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), id, catalog.UpdateParams{
		ColorName:  req.ColorName,
		UnitWeight: req.UnitWeight,
		UnitPrice:  req.UnitPrice,
		StockCount: req.StockCount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req adjustStockRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}
