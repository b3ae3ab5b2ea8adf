package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/importer"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

const importTimeout = 2 * time.Minute

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateForm
	productsStateImport
)

type productFormMode int

const (
	productFormCreate productFormMode = iota
	productFormEdit
	productFormStock
	productFormDelete
)

// productFields holds form bindings. It lives behind a pointer so huh keeps writing
// to the same values while the model is copied between updates.
type productFields struct {
	color   string
	weight  string
	price   string
	stock   string
	delta   string
	confirm bool
}

type ProductsModel struct {
	CommonModel
	catalog *catalog.Service
	parser  *importer.Parser

	state      productsState
	mode       productFormMode
	table      table.Model
	products   []*catalog.Product
	selected   *catalog.Product
	form       *huh.Form
	fields     *productFields
	filePicker filepicker.Model

	loading bool
	status  string
	err     error
}

func NewProductsModel(svc *catalog.Service, parser *importer.Parser) ProductsModel {
	columns := []table.Column{
		{Title: "Color", Width: 24},
		{Title: "Weight (g)", Width: 12},
		{Title: "Price", Width: 12},
		{Title: "Stock", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ProductsModel{
		catalog:    svc,
		parser:     parser,
		table:      t,
		fields:     &productFields{},
		filePicker: fp,
		loading:    true,
	}
}

func (m ProductsModel) Title() string { return "Catalog" }

func (m ProductsModel) ShortHelp() string {
	switch m.state {
	case productsStateForm:
		return "Navigate form | Esc: cancel"
	case productsStateImport:
		return "Enter: import file | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | s: stock | x: delete | i: import csv | r: refresh"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.products = msg.products
		m.refreshTable()

		return m, nil

	case productSavedMsg:
		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.status)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case productsStateForm:
		return m.updateForm(msg)
	case productsStateImport:
		return m.updateImport(msg)
	}

	return m.updateBrowse(msg)
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.openForm(productFormCreate)
		case "e":
			return m.openForm(productFormEdit)
		case "s":
			return m.openForm(productFormStock)
		case "x":
			return m.openForm(productFormDelete)
		case "i":
			m.state = productsStateImport
			m.status = ""

			return m, m.filePicker.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) openForm(mode productFormMode) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.selected = nil
	*m.fields = productFields{}

	if mode != productFormCreate {
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.products) {
			return m, nil
		}

		m.selected = m.products[idx]
		m.fields.color = m.selected.ColorName
		m.fields.weight = m.selected.UnitWeight.String()
		m.fields.price = m.selected.UnitPrice.String()
		m.fields.stock = strconv.Itoa(m.selected.StockCount)
	}

	m.form = m.buildForm()
	m.state = productsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) buildForm() *huh.Form {
	f := m.fields

	switch m.mode {
	case productFormStock:
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Stock change").
				Description("Positive to restock, negative to write off").
				Value(&f.delta).
				Validate(validateDelta),
		)).WithWidth(45).WithShowHelp(false)

	case productFormDelete:
		return huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", m.selected.ColorName)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&f.confirm),
		)).WithWidth(45).WithShowHelp(false)
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Color name").
			Value(&f.color).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("color name cannot be empty")
				}

				return nil
			}),
		huh.NewInput().
			Title("Unit weight (g)").
			Placeholder("0").
			Value(&f.weight).
			Validate(validateWeight),
		huh.NewInput().
			Title("Unit price").
			Placeholder("0.00").
			Value(&f.price).
			Validate(validateAmount(false)),
		huh.NewInput().
			Title("Stock count").
			Placeholder("0").
			Value(&f.stock).
			Validate(validateCount),
	)).WithWidth(45).WithShowHelp(false)
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ProductsModel) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.status = fmt.Sprintf("Importing %s...", path)
		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ProductsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading catalog...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == productsStateImport {
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a product list (colorName, unitWeight, unitPrice, stockCount):\n\n" + m.filePicker.View(),
		)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == productsStateForm && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProductsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			p.ColorName,
			p.UnitWeight.String(),
			FormatAmount(p.UnitPrice),
			strconv.Itoa(p.StockCount),
		})
	}

	m.table.SetRows(rows)
}

func validateWeight(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return errors.New("enter a non-negative number")
	}

	return nil
}

func validateCount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter a whole number of at least 0")
	}

	return nil
}

func validateDelta(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return errors.New("enter a non-zero whole number")
	}

	return nil
}

// Messages

type loadProductsMsg struct {
	products []*catalog.Product
	err      error
}

type productSavedMsg struct {
	status string
	err    error
}

func (m ProductsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ps, err := m.catalog.List(ctx)

		return loadProductsMsg{products: ps, err: err}
	}
}

func (m ProductsModel) saveCmd() tea.Cmd {
	f := *m.fields
	mode := m.mode
	selected := m.selected
	svc := m.catalog

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch mode {
		case productFormStock:
			delta, _ := strconv.Atoi(strings.TrimSpace(f.delta))

			p, err := svc.AdjustStock(ctx, selected.ID, delta)
			if err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: fmt.Sprintf("%s stock is now %d.", p.ColorName, p.StockCount)}

		case productFormDelete:
			if !f.confirm {
				return productSavedMsg{status: "Nothing deleted."}
			}

			if err := svc.Delete(ctx, selected.ID); err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: fmt.Sprintf("Deleted %s.", selected.ColorName)}
		}

		params, err := f.createParams()
		if err != nil {
			return productSavedMsg{err: err}
		}

		if mode == productFormCreate {
			p, err := svc.Create(ctx, params)
			if err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: fmt.Sprintf("Added %s.", p.ColorName)}
		}

		p, err := svc.Update(ctx, selected.ID, changedFields(selected, params))
		if err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: fmt.Sprintf("Saved %s.", p.ColorName)}
	}
}

// changedFields leaves out values the form did not change, so a sale recorded while the
// form was open keeps its stock decrement.
func changedFields(before *catalog.Product, after catalog.CreateParams) catalog.UpdateParams {
	var u catalog.UpdateParams

	if after.ColorName != before.ColorName {
		u.ColorName = &after.ColorName
	}

	if !after.UnitWeight.Equal(before.UnitWeight) {
		u.UnitWeight = &after.UnitWeight
	}

	if after.UnitPrice != before.UnitPrice {
		u.UnitPrice = &after.UnitPrice
	}

	if after.StockCount != before.StockCount {
		u.StockCount = &after.StockCount
	}

	return u
}

func (f productFields) createParams() (catalog.CreateParams, error) {
	params := catalog.CreateParams{ColorName: f.color}

	var err error

	if params.UnitPrice, err = money.Parse(f.price); err != nil {
		return params, err
	}

	if s := strings.TrimSpace(f.weight); s != "" {
		if params.UnitWeight, err = decimal.NewFromString(s); err != nil {
			return params, fmt.Errorf("parsing weight: %w", err)
		}
	}

	if s := strings.TrimSpace(f.stock); s != "" {
		if params.StockCount, err = strconv.Atoi(s); err != nil {
			return params, fmt.Errorf("parsing stock: %w", err)
		}
	}

	return params, nil
}

func (m ProductsModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return productSavedMsg{err: err}
		}
		defer f.Close()

		res, err := m.parser.Parse(f)
		if err != nil {
			return productSavedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		ps, err := m.catalog.CreateBatch(ctx, res.Products)
		if err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: fmt.Sprintf("Imported %d products (%s).", len(ps), res.Charset)}
	}
}
