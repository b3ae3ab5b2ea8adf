package view

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

type txState int

const (
	txStateList txState = iota
	txStateTimeframe
	txStateEditing
)

type txAction int

const (
	txActionRepay txAction = iota
	txActionNote
	txActionDelete
)

var (
	txViews    = []ledger.View{ledger.ViewActive, ledger.ViewDeleted, ledger.ViewArchived, ledger.ViewAll}
	txStatuses = []ledger.Status{"", ledger.StatusCredit, ledger.StatusPartial, ledger.StatusPaid}
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *ledger.Transaction
}

func (i txItem) Title() string {
	status := faintStyle.Render(fmt.Sprintf("[%s]", i.tx.Status))

	return fmt.Sprintf("%s  %-20s  %10s  %s", FormatDate(i.tx.Date), i.tx.CustomerName, FormatAmount(i.tx.TotalAmount), status)
}

func (i txItem) Description() string {
	colors := make([]string, len(i.tx.Items))
	for j, item := range i.tx.Items {
		colors[j] = fmt.Sprintf("%s x%d", item.ColorName, item.Quantity)
	}

	desc := fmt.Sprintf("%s | due %s", strings.Join(colors, ", "), FormatAmount(i.tx.Balance()))

	if i.tx.Lifecycle() != ledger.LifecycleActive {
		desc += " | " + string(i.tx.Lifecycle())
	}

	if i.tx.Note != "" {
		desc += " | " + i.tx.Note
	}

	return desc
}

func (i txItem) FilterValue() string {
	return i.tx.CustomerName
}

type txFields struct {
	amount  string
	note    string
	confirm bool
}

type TransactionsModel struct {
	CommonModel
	ledger *ledger.Service

	state           txState
	action          txAction
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	fields          *txFields
	txs             []*ledger.Transaction
	selectedTx      *ledger.Transaction

	viewIdx   int
	statusIdx int
	startDate *time.Time
	endDate   *time.Time
	loading   bool
	status    string
}

func NewTransactionsModel(svc *ledger.Service) TransactionsModel {
	return newTransactionsModel(svc, 0)
}

// NewRecycleBinModel opens the transaction list on deleted transactions.
func NewRecycleBinModel(svc *ledger.Service) TransactionsModel {
	return newTransactionsModel(svc, 1)
}

func newTransactionsModel(svc *ledger.Service, viewIdx int) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 80, 20)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		ledger:          svc,
		timeframePicker: NewTimeframePicker(),
		list:            l,
		fields:          &txFields{},
		viewIdx:         viewIdx,
		loading:         true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | p: repay | n: note | x: delete | v: view | s: status | t: dates | /: filter"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate, m.endDate = nil, nil

		if !msg.All {
			start, end := msg.Start, msg.End
			m.startDate, m.endDate = &start, &end
		}

		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.txs = msg.txs
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.status)

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m.updateList(msg)
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			m.state = txStateList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break // let the list clear the filter
			}

			return m, Back
		case "v":
			m.viewIdx = (m.viewIdx + 1) % len(txViews)
			m.loading = true

			return m, m.loadTxsCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(txStatuses)
			m.loading = true

			return m, m.loadTxsCmd()
		case "t":
			m.state = txStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "p":
			return m.startEditing(txActionRepay)
		case "n":
			return m.startEditing(txActionNote)
		case "x":
			return m.startEditing(txActionDelete)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing(action txAction) (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	tx := selected.tx

	if tx.IsArchived() && action != txActionDelete {
		m.status = errorStyle.Render("Archived transactions are read-only.")
		return m, nil
	}

	m.selectedTx = tx
	m.action = action
	*m.fields = txFields{amount: FormatAmount(tx.Balance()), note: tx.Note}

	f := m.fields

	var field huh.Field

	switch action {
	case txActionRepay:
		balance := tx.Balance()
		field = huh.NewInput().
			Title("Repayment").
			Description(fmt.Sprintf("Outstanding %s", FormatAmount(balance))).
			Value(&f.amount).
			Validate(func(s string) error {
				if err := validateAmount(false)(s); err != nil {
					return err
				}

				a, _ := money.Parse(s)
				if a <= 0 || a > balance {
					return fmt.Errorf("must be above 0 and at most %s", FormatAmount(balance))
				}

				return nil
			})
	case txActionNote:
		field = huh.NewText().
			Title("Note").
			Value(&f.note)
	case txActionDelete:
		field = huh.NewConfirm().
			Title("Move to recycle bin? Stock is not restored.").
			Affirmative("Delete").
			Negative("Keep").
			Value(&f.confirm)
	}

	m.form = huh.NewForm(huh.NewGroup(field)).WithWidth(50).WithShowHelp(false)
	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	dates := "All Time"
	if m.startDate != nil {
		dates = FormatDate(*m.startDate) + " to " + FormatDate(*m.endDate)
	}

	status := "Any"
	if s := txStatuses[m.statusIdx]; s != "" {
		status = string(s)
	}

	header := fmt.Sprintf("[v] View: %s | [s] Status: %s | [t] Dates: %s",
		activeStyle(string(txViews[m.viewIdx])), activeStyle(status), activeStyle(dates))

	statusLine := ""
	if m.status != "" {
		statusLine = m.status + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n" + statusLine + m.list.View())
}

func (m TransactionsModel) txInfoView() string {
	if m.selectedTx == nil {
		return ""
	}

	t := m.selectedTx

	var repayments []string
	for _, r := range t.Repayments {
		repayments = append(repayments, fmt.Sprintf("%s %s", FormatDate(r.Date), FormatAmount(r.Amount)))
	}

	info := fmt.Sprintf(
		"%s  |  %s  |  %s\nTotal %s  |  Paid %s  |  Due %s",
		t.CustomerName,
		FormatDate(t.Date),
		t.Status,
		FormatAmount(t.TotalAmount),
		FormatAmount(t.PaidAmount),
		FormatAmount(t.Balance()),
	)

	if len(repayments) > 0 {
		info += "\nRepayments: " + strings.Join(repayments, ", ")
	}

	return panelStyle.BorderForeground(lipgloss.Color("240")).Render(info)
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs []*ledger.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	filter := ledger.ListFilter{
		View:      txViews[m.viewIdx],
		StartDate: m.startDate,
		EndDate:   m.endDate,
	}

	if s := txStatuses[m.statusIdx]; s != "" {
		filter.Status = &s
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.ledger.List(ctx, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	tx := m.selectedTx
	f := *m.fields
	action := m.action
	svc := m.ledger

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch action {
		case txActionRepay:
			amount, err := money.Parse(f.amount)
			if err != nil {
				return saveTxResultMsg{err: err}
			}

			updated, err := svc.Repay(ctx, tx.ID, amount)
			if err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: fmt.Sprintf("%s now %s, due %s.",
				updated.CustomerName, updated.Status, FormatAmount(updated.Balance()))}

		case txActionNote:
			if _, err := svc.SetNote(ctx, tx.ID, strings.TrimSpace(f.note)); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Note saved."}

		case txActionDelete:
			if !f.confirm {
				return saveTxResultMsg{status: "Nothing deleted."}
			}

			if err := svc.SoftDelete(ctx, tx.ID); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Moved to recycle bin."}
		}

		return saveTxResultMsg{err: errors.New("unknown action")}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(accent).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
