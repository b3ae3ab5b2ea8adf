package product

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type productResponse struct {
	ID         uuid.UUID    `json:"id"`
	ColorName  string       `json:"colorName"`
	UnitWeight json.Number  `json:"unitWeight"`
	UnitPrice  money.Amount `json:"unitPrice"`
	StockCount int          `json:"stockCount"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func toResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		ColorName:  p.ColorName,
		UnitWeight: json.Number(p.UnitWeight.String()),
		UnitPrice:  p.UnitPrice,
		StockCount: p.StockCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toResponseList(ps []*catalog.Product) []productResponse {
	resp := make([]productResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	return resp
}
