package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type transactionResponse struct {
	ID           uuid.UUID           `json:"id"`
	CustomerName string              `json:"customerName"`
	Date         string              `json:"date"`
	Status       ledger.Status       `json:"status"`
	TotalAmount  money.Amount        `json:"totalAmount"`
	PaidAmount   money.Amount        `json:"paidAmount"`
	Balance      money.Amount        `json:"balance"`
	Items        []itemResponse      `json:"items"`
	Repayments   []repaymentResponse `json:"repaymentHistory"`
	Note         string              `json:"note"`
	IsDeleted    bool                `json:"isDeleted"`
	IsArchived   bool                `json:"isArchived"`
	Lifecycle    ledger.Lifecycle    `json:"lifecycle"`
	BatchID      *uuid.UUID          `json:"batchId,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type itemResponse struct {
	ProductID *uuid.UUID   `json:"productId"`
	ColorName string       `json:"colorName"`
	Quantity  int          `json:"quantity"`
	UnitPrice money.Amount `json:"unitPrice"`
}

type repaymentResponse struct {
	Date   string       `json:"date"`
	Amount money.Amount `json:"amount"`
}

func toResponse(t *ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:           t.ID,
		CustomerName: t.CustomerName,
		Date:         t.Date.Format(time.DateOnly),
		Status:       t.Status,
		TotalAmount:  t.TotalAmount,
		PaidAmount:   t.PaidAmount,
		Balance:      t.Balance(),
		Items:        make([]itemResponse, len(t.Items)),
		Repayments:   make([]repaymentResponse, len(t.Repayments)),
		Note:         t.Note,
		IsDeleted:    t.IsDeleted,
		IsArchived:   t.IsArchived(),
		Lifecycle:    t.Lifecycle(),
		BatchID:      t.BatchID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}

	for i, item := range t.Items {
		resp.Items[i] = itemResponse{
			ProductID: item.ProductID,
			ColorName: item.ColorName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	for i, r := range t.Repayments {
		resp.Repayments[i] = repaymentResponse{
			Date:   r.Date.Format(time.DateOnly),
			Amount: r.Amount,
		}
	}

	return resp
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = toResponse(t)
	}

	return resp
}
