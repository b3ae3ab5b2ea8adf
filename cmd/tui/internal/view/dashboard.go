package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/report"
)

type dashboardState int

const (
	dashboardStateLoading dashboardState = iota
	dashboardStateSummary
	dashboardStateConfirm
	dashboardStateClosing
)

type DashboardModel struct {
	CommonModel
	report  *report.Service
	batches *batch.Service

	state   dashboardState
	summary *report.Dashboard
	form    *huh.Form
	confirm *bool
	spinner spinner.Model
	status  string
}

func NewDashboardModel(reportSvc *report.Service, batchSvc *batch.Service) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return DashboardModel{
		report:  reportSvc,
		batches: batchSvc,
		confirm: new(false),
		spinner: s,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	switch m.state {
	case dashboardStateConfirm:
		return "Esc: cancel | Enter: confirm"
	case dashboardStateClosing:
		return "Closing batch..."
	}

	return "Esc: back | e: end batch | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.state = dashboardStateSummary
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.summary = msg.summary

		return m, nil

	case batchClosedMsg:
		if msg.err != nil {
			m.state = dashboardStateSummary
			m.status = errorStyle.Render(fmt.Sprintf("Batch not closed: %v", msg.err))

			return m, nil
		}

		m.state = dashboardStateLoading
		m.status = successStyle.Render(fmt.Sprintf("%s closed with %d transactions, total %s.",
			msg.batch.Name, msg.batch.TransactionCount, FormatAmount(msg.batch.TotalSales)))

		return m, m.loadCmd()
	}

	switch m.state {
	case dashboardStateConfirm:
		return m.updateConfirm(msg)
	case dashboardStateClosing:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.state = dashboardStateLoading
		return m, m.loadCmd()
	case "e":
		if m.summary == nil || m.summary.ActiveTransactionCount() == 0 {
			m.status = errorStyle.Render("There are no active transactions to archive.")
			return m, nil
		}

		*m.confirm = false
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Archive %d transactions into a new batch?", m.summary.ActiveTransactionCount())).
				Description("Archived transactions become read-only.").
				Affirmative("End batch").
				Negative("Cancel").
				Value(m.confirm),
		)).WithWidth(50).WithShowHelp(false)
		m.state = dashboardStateConfirm

		return m, m.form.Init()
	}

	return m, nil
}

func (m DashboardModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashboardStateSummary
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil

	if !*m.confirm {
		m.state = dashboardStateSummary
		return m, nil
	}

	m.state = dashboardStateClosing
	m.status = ""

	return m, tea.Batch(m.spinner.Tick, m.endBatchCmd())
}

func (m DashboardModel) View() string {
	var body string

	switch m.state {
	case dashboardStateLoading:
		body = "Loading summary..."
	case dashboardStateClosing:
		body = fmt.Sprintf("%s Archiving active transactions...", m.spinner.View())
	case dashboardStateConfirm:
		body = m.form.View()
	default:
		body = m.viewSummary()
	}

	if m.status != "" {
		body = m.status + "\n\n" + body
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func (m DashboardModel) viewSummary() string {
	if m.summary == nil {
		return ""
	}

	d := m.summary

	totals := panelStyle.Render(fmt.Sprintf(
		"Sales      %s\nCollected  %s\nDue        %s\n\nTransactions %d  |  Stock %d",
		activeStyle(FormatAmount(d.TotalSales)),
		FormatAmount(d.TotalCollected),
		FormatAmount(d.TotalDue),
		d.ActiveTransactionCount(),
		d.TotalStock,
	))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		totals,
		panelStyle.Render(itemsBlock(d.ItemsSummary)),
		panelStyle.Render(debtsBlock(d.CustomerDebts)),
	)
}

func itemsBlock(items map[string]int) string {
	if len(items) == 0 {
		return "Items sold\n" + faintStyle.Render("none")
	}

	colors := make([]string, 0, len(items))
	for c := range items {
		colors = append(colors, c)
	}

	slices.Sort(colors)

	var b strings.Builder
	b.WriteString("Items sold")

	for _, c := range colors {
		fmt.Fprintf(&b, "\n%-14s %4d", c, items[c])
	}

	return b.String()
}

func debtsBlock(debts []batch.CustomerDebt) string {
	if len(debts) == 0 {
		return "Outstanding\n" + faintStyle.Render("none")
	}

	var b strings.Builder
	b.WriteString("Outstanding")

	for _, d := range debts {
		fmt.Fprintf(&b, "\n%-16s %10s", d.CustomerName, FormatAmount(d.Balance))
	}

	return b.String()
}

// Messages

type dashboardLoadedMsg struct {
	summary *report.Dashboard
	err     error
}

type batchClosedMsg struct {
	batch *batch.Batch
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.report.DashboardSummary(ctx)

		return dashboardLoadedMsg{summary: d, err: err}
	}
}

func (m DashboardModel) endBatchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.batches.EndBatch(ctx)

		return batchClosedMsg{batch: b, err: err}
	}
}
