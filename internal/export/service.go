package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
)

// Report is a closed batch together with the transactions it archived.
type Report struct {
	Batch        *batch.Batch
	Transactions []*ledger.Transaction
}

// Service renders batch reports for download and sharing.
type Service struct {
	batches *batch.Service
	sales   *ledger.Service
}

func NewService(batches *batch.Service, sales *ledger.Service) *Service {
	return &Service{batches: batches, sales: sales}
}

// Report loads a batch and its transactions, oldest first.
func (s *Service) Report(ctx context.Context, batchID uuid.UUID) (*Report, error) {
	b, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}

	txs, err := s.sales.List(ctx, ledger.ListFilter{View: ledger.ViewAll, BatchID: &batchID})
	if err != nil {
		return nil, fmt.Errorf("listing batch transactions: %w", err)
	}

	slices.Reverse(txs)

	return &Report{Batch: b, Transactions: txs}, nil
}

// WriteCSV writes the report as one CSV document with a section per block: summary,
// items sold, customer debts, transactions.
func (s *Service) WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	b := r.Batch

	records := [][]string{
		{"Batch", b.Name},
		{"Start date", b.StartDate.Format(time.DateOnly)},
		{"End date", b.EndDate.Format(time.DateOnly)},
		{"Transactions", strconv.Itoa(b.TransactionCount)},
		{"Total sales", b.TotalSales.String()},
		{"Total collected", b.TotalCollected.String()},
		{"Total due", b.TotalDue.String()},
		{},
		{"Color", "Quantity"},
	}

	for _, color := range slices.Sorted(maps.Keys(b.ItemsSummary)) {
		records = append(records, []string{color, strconv.Itoa(b.ItemsSummary[color])})
	}

	records = append(records, []string{}, []string{"Customer", "Balance"})

	for _, d := range b.CustomerDebts {
		records = append(records, []string{d.CustomerName, d.Balance.String()})
	}

	records = append(records, []string{}, []string{"Date", "Customer", "Items", "Total", "Paid", "Status", "Deleted", "Note"})

	for _, t := range r.Transactions {
		records = append(records, []string{
			t.Date.Format(time.DateOnly),
			t.CustomerName,
			describeItems(t.Items),
			t.TotalAmount.String(),
			t.PaidAmount.String(),
			string(t.Status),
			strconv.FormatBool(t.IsDeleted),
			t.Note,
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// GenerateSummary creates a plain-text digest of the report, suitable for pasting into a message.
func (s *Service) GenerateSummary(r *Report) string {
	var sb strings.Builder

	b := r.Batch

	fmt.Fprintf(&sb, "%s | %s to %s\n", b.Name, b.StartDate.Format(time.DateOnly), b.EndDate.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Sales %s | Collected %s | Due %s\n", b.TotalSales, b.TotalCollected, b.TotalDue)

	for _, color := range slices.Sorted(maps.Keys(b.ItemsSummary)) {
		fmt.Fprintf(&sb, "* %s x %d\n", color, b.ItemsSummary[color])
	}

	if len(b.CustomerDebts) == 0 {
		sb.WriteString("No outstanding debts\n")
		return sb.String()
	}

	sb.WriteString("Outstanding:\n")

	for _, d := range b.CustomerDebts {
		fmt.Fprintf(&sb, "* %s | %s\n", d.CustomerName, d.Balance)
	}

	return sb.String()
}

// Filename is the download name for a batch report.
func Filename(b *batch.Batch, ext string) string {
	return fmt.Sprintf("batch_%d_%s.%s", b.Number, b.EndDate.Format("20060102"), ext)
}

func describeItems(items []ledger.LineItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s x%d @ %s", item.ColorName, item.Quantity, item.UnitPrice)
	}

	return strings.Join(parts, "; ")
}
