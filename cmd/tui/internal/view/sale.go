package view

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type saleState int

const (
	saleStateLoading saleState = iota
	saleStateCustomer
	saleStateItem
	saleStatePayment
	saleStateSaving
	saleStateResult
)

type saleFields struct {
	customer  string
	date      string
	productID uuid.UUID
	quantity  string
	price     string
	more      bool
	paid      string
}

type saleLine struct {
	item  ledger.SaleItem
	label string
	total money.Amount
}

// SaleModel walks the cashier through one sale: customer, items, then payment.
type SaleModel struct {
	CommonModel
	catalog *catalog.Service
	ledger  *ledger.Service

	state    saleState
	products map[uuid.UUID]*catalog.Product
	options  []huh.Option[uuid.UUID]
	form     *huh.Form
	fields   *saleFields
	lines    []saleLine

	result *ledger.Transaction
	err    error
}

func NewSaleModel(catalogSvc *catalog.Service, ledgerSvc *ledger.Service) SaleModel {
	return SaleModel{
		catalog: catalogSvc,
		ledger:  ledgerSvc,
		fields:  &saleFields{},
	}
}

func (m SaleModel) Title() string { return "New Sale" }

func (m SaleModel) ShortHelp() string {
	if m.state == saleStateResult {
		return "Esc: back | n: next sale"
	}

	return "Navigate form | Esc: cancel sale"
}

func (m SaleModel) Init() tea.Cmd {
	return m.loadProductsCmd()
}

func (m SaleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saleProductsMsg:
		if msg.err != nil {
			m.state = saleStateResult
			m.err = msg.err

			return m, nil
		}

		if len(msg.products) == 0 {
			m.state = saleStateResult
			m.err = errors.New("the catalog is empty, add products first")

			return m, nil
		}

		m.products = make(map[uuid.UUID]*catalog.Product, len(msg.products))
		m.options = make([]huh.Option[uuid.UUID], 0, len(msg.products))

		for _, p := range msg.products {
			m.products[p.ID] = p
			label := fmt.Sprintf("%s  @ %s  (%d in stock)", p.ColorName, FormatAmount(p.UnitPrice), p.StockCount)
			m.options = append(m.options, huh.NewOption(label, p.ID))
		}

		return m.startCustomer()

	case saleSavedMsg:
		m.state = saleStateResult
		m.result = msg.tx
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == saleStateResult && msg.String() == "n" {
			fresh := NewSaleModel(m.catalog, m.ledger)
			return fresh, fresh.Init()
		}
	}

	if m.form == nil || m.state == saleStateSaving || m.state == saleStateResult {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case saleStateCustomer:
		return m.startItem()
	case saleStateItem:
		if err := m.addLine(); err != nil {
			m.state = saleStateResult
			m.err = err

			return m, nil
		}

		if m.fields.more {
			return m.startItem()
		}

		return m.startPayment()
	case saleStatePayment:
		m.state = saleStateSaving
		return m, m.saveCmd()
	}

	return m, cmd
}

func (m SaleModel) startCustomer() (tea.Model, tea.Cmd) {
	f := m.fields

	m.state = saleStateCustomer
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Customer").
			Value(&f.customer).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("customer name cannot be empty")
				}

				return nil
			}),
		huh.NewInput().
			Title("Date").
			Placeholder("today").
			Description("YYYY-MM-DD, leave empty for today").
			Value(&f.date).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}

				if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
					return errors.New("use YYYY-MM-DD")
				}

				return nil
			}),
	)).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m SaleModel) startItem() (tea.Model, tea.Cmd) {
	f := m.fields
	f.productID = uuid.Nil
	f.quantity = "1"
	f.price = ""
	f.more = false

	m.state = saleStateItem
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[uuid.UUID]().
			Title("Product").
			Options(m.options...).
			Value(&f.productID),
		huh.NewInput().
			Title("Quantity").
			Value(&f.quantity).
			Validate(func(s string) error {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n <= 0 || n > math.MaxInt32 {
					return errors.New("enter a whole number above 0")
				}

				return nil
			}),
		huh.NewInput().
			Title("Unit price").
			Placeholder("catalog price").
			Value(&f.price).
			Validate(validateAmount(true)),
		huh.NewConfirm().
			Title("Add another item?").
			Affirmative("Yes").
			Negative("No").
			Value(&f.more),
	)).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m SaleModel) startPayment() (tea.Model, tea.Cmd) {
	f := m.fields
	f.paid = "0"

	total := m.total()

	m.state = saleStatePayment
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Paid now").
			Description(fmt.Sprintf("Total %s, anything less is kept as credit", FormatAmount(total))).
			Value(&f.paid).
			Validate(func(s string) error {
				if err := validateAmount(false)(s); err != nil {
					return err
				}

				paid, _ := money.Parse(s)
				if paid < 0 || paid > total {
					return fmt.Errorf("must be between 0 and %s", FormatAmount(total))
				}

				return nil
			}),
	)).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m *SaleModel) addLine() error {
	f := m.fields
	p, ok := m.products[f.productID]
	if !ok {
		return nil
	}

	qty, _ := strconv.Atoi(strings.TrimSpace(f.quantity))

	item := ledger.SaleItem{ProductID: f.productID, Quantity: qty}
	price := p.UnitPrice

	if s := strings.TrimSpace(f.price); s != "" {
		if a, err := money.Parse(s); err == nil {
			item.UnitPrice = &a
			price = a
		}
	}

	sub, err := price.Mul(qty)
	if err == nil {
		_, err = m.total().Add(sub)
	}

	if err != nil {
		return fmt.Errorf("%s x%d: sale total is too large", p.ColorName, qty)
	}

	m.lines = append(m.lines, saleLine{
		item:  item,
		label: fmt.Sprintf("%s x%d @ %s", p.ColorName, qty, FormatAmount(price)),
		total: sub,
	})

	return nil
}

func (m SaleModel) total() money.Amount {
	var total money.Amount
	for _, l := range m.lines {
		total += l.total
	}

	return total
}

func (m SaleModel) View() string {
	var b strings.Builder

	if len(m.lines) > 0 {
		b.WriteString("Items:\n")

		for _, l := range m.lines {
			fmt.Fprintf(&b, "  %s = %s\n", l.label, FormatAmount(l.total))
		}

		fmt.Fprintf(&b, "  Total: %s\n\n", activeStyle(FormatAmount(m.total())))
	}

	switch m.state {
	case saleStateLoading:
		b.WriteString("Loading catalog...")
	case saleStateSaving:
		b.WriteString("Recording sale...")
	case saleStateResult:
		b.WriteString(m.viewResult())
	default:
		if m.form != nil {
			b.WriteString(m.form.View())
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m SaleModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Sale not recorded: %v", m.err)) + "\n\n(n: start over, Esc: back)"
	}

	t := m.result

	return successStyle.Render(fmt.Sprintf("Recorded sale for %s", t.CustomerName)) + "\n\n" +
		fmt.Sprintf("Total %s | Paid %s | Balance %s | %s\n\n(n: next sale, Esc: back)",
			FormatAmount(t.TotalAmount), FormatAmount(t.PaidAmount), FormatAmount(t.Balance()), t.Status)
}

// Messages

type saleProductsMsg struct {
	products []*catalog.Product
	err      error
}

type saleSavedMsg struct {
	tx  *ledger.Transaction
	err error
}

func (m SaleModel) loadProductsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ps, err := m.catalog.List(ctx)

		return saleProductsMsg{products: ps, err: err}
	}
}

func (m SaleModel) saveCmd() tea.Cmd {
	f := *m.fields

	params := ledger.SaleParams{
		CustomerName: f.customer,
		Items:        make([]ledger.SaleItem, len(m.lines)),
	}

	for i, l := range m.lines {
		params.Items[i] = l.item
	}

	if s := strings.TrimSpace(f.date); s != "" {
		params.Date, _ = time.Parse(time.DateOnly, s)
	}

	params.PaidAmount, _ = money.Parse(f.paid)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		t, err := m.ledger.RecordSale(ctx, params)

		return saleSavedMsg{tx: t, err: err}
	}
}
