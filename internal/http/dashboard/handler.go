package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/http/respond"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
	"github.com/MrJamesThe3rd/batchpos/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type summaryResponse struct {
	TotalSales             money.Amount         `json:"totalSales"`
	TotalCollected         money.Amount         `json:"totalCollected"`
	TotalDue               money.Amount         `json:"totalDue"`
	ItemsSummary           map[string]int       `json:"itemsSummary"`
	CustomerDebts          []batch.CustomerDebt `json:"customerDebts"`
	ActiveTransactionCount int                  `json:"activeTransactionCount"`
	TotalStock             int64                `json:"totalStock"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.DashboardSummary(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		TotalSales:             d.TotalSales,
		TotalCollected:         d.TotalCollected,
		TotalDue:               d.TotalDue,
		ItemsSummary:           d.ItemsSummary,
		CustomerDebts:          d.CustomerDebts,
		ActiveTransactionCount: d.ActiveTransactionCount(),
		TotalStock:             d.TotalStock,
	})
}
