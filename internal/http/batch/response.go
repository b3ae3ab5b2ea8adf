package batch

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type batchResponse struct {
	ID               uuid.UUID            `json:"id"`
	Number           int                  `json:"number"`
	BatchName        string               `json:"batchName"`
	StartDate        string               `json:"startDate"`
	EndDate          string               `json:"endDate"`
	TotalSales       money.Amount         `json:"totalSales"`
	TotalCollected   money.Amount         `json:"totalCollected"`
	TotalDue         money.Amount         `json:"totalDue"`
	TransactionCount int                  `json:"transactionCount"`
	ItemsSummary     map[string]int       `json:"itemsSummary"`
	CustomerDebts    []batch.CustomerDebt `json:"customerDebts"`
	CreatedAt        time.Time            `json:"createdAt"`
}

func toResponse(b *batch.Batch) batchResponse {
	resp := batchResponse{
		ID:               b.ID,
		Number:           b.Number,
		BatchName:        b.Name,
		StartDate:        b.StartDate.Format(time.DateOnly),
		EndDate:          b.EndDate.Format(time.DateOnly),
		TotalSales:       b.TotalSales,
		TotalCollected:   b.TotalCollected,
		TotalDue:         b.TotalDue,
		TransactionCount: b.TransactionCount,
		ItemsSummary:     maps.Clone(b.ItemsSummary),
		CustomerDebts:    b.CustomerDebts,
		CreatedAt:        b.CreatedAt,
	}

	if resp.ItemsSummary == nil {
		resp.ItemsSummary = map[string]int{}
	}

	if resp.CustomerDebts == nil {
		resp.CustomerDebts = []batch.CustomerDebt{}
	}

	return resp
}

func toResponseList(bs []*batch.Batch) []batchResponse {
	resp := make([]batchResponse, len(bs))
	for i, b := range bs {
		resp[i] = toResponse(b)
	}

	return resp
}
