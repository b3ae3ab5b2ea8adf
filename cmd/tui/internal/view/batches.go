package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/export"
	"github.com/MrJamesThe3rd/batchpos/internal/report"
)

type batchesState int

const (
	batchesStateList batchesState = iota
	batchesStateDetail
	batchesStatePath
	batchesStateExporting
)

type batchItem struct {
	b *batch.Batch
}

func (i batchItem) Title() string {
	return fmt.Sprintf("%-10s  %s to %s", i.b.Name, FormatDate(i.b.StartDate), FormatDate(i.b.EndDate))
}

func (i batchItem) Description() string {
	return fmt.Sprintf("%d transactions | sales %s | due %s",
		i.b.TransactionCount, FormatAmount(i.b.TotalSales), FormatAmount(i.b.TotalDue))
}

func (i batchItem) FilterValue() string {
	return i.b.Name
}

type BatchesModel struct {
	CommonModel
	report *report.Service
	export *export.Service

	state    batchesState
	list     list.Model
	selected *batch.Batch
	form     *huh.Form
	path     *string
	spinner  spinner.Model
	status   string
}

func NewBatchesModel(reportSvc *report.Service, exportSvc *export.Service) BatchesModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Batch History"
	l.SetShowHelp(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return BatchesModel{
		report:  reportSvc,
		export:  exportSvc,
		list:    l,
		path:    new("./exports"),
		spinner: s,
	}
}

func (m BatchesModel) Title() string { return "Batch History" }

func (m BatchesModel) ShortHelp() string {
	switch m.state {
	case batchesStateDetail:
		return "Esc: back | x: export"
	case batchesStatePath:
		return "Esc: cancel | Enter: confirm"
	case batchesStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: details | /: filter"
}

func (m BatchesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BatchesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchesLoadedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		items := make([]list.Item, len(msg.batches))
		for i, b := range msg.batches {
			items[i] = batchItem{b: b}
		}

		if len(items) == 0 {
			m.status = "No batches have been closed yet."
		}

		return m, m.list.SetItems(items)

	case batchExportedMsg:
		m.state = batchesStateDetail
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Export failed: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render("Exported to " + msg.dir)

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case batchesStateDetail:
		return m.updateDetail(msg)
	case batchesStatePath:
		return m.updatePath(msg)
	case batchesStateExporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m.updateList(msg)
}

func (m BatchesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "enter":
			if item, ok := m.list.SelectedItem().(batchItem); ok {
				m.selected = item.b
				m.state = batchesStateDetail
				m.status = ""
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m BatchesModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = batchesStateList
		m.status = ""
	case "x":
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.path),
		)).WithWidth(50).WithShowHelp(false)
		m.state = batchesStatePath

		return m, m.form.Init()
	}

	return m, nil
}

func (m BatchesModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = batchesStateDetail
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

	m.state = batchesStateExporting

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(m.selected, *m.path))
}

func (m BatchesModel) View() string {
	var body string

	switch m.state {
	case batchesStateDetail:
		body = m.viewDetail()
	case batchesStatePath:
		body = m.viewDetail() + "\n\n" + m.form.View()
	case batchesStateExporting:
		body = fmt.Sprintf("%s Writing %s report...", m.spinner.View(), m.selected.Name)
	default:
		body = m.list.View()
	}

	if m.status != "" {
		body = m.status + "\n" + body
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func (m BatchesModel) viewDetail() string {
	b := m.selected

	header := lipgloss.NewStyle().Bold(true).Foreground(accent).
		Render(fmt.Sprintf("%s  %s to %s", b.Name, FormatDate(b.StartDate), FormatDate(b.EndDate)))

	totals := panelStyle.Render(fmt.Sprintf(
		"Sales      %s\nCollected  %s\nDue        %s\n\nTransactions %d",
		FormatAmount(b.TotalSales),
		FormatAmount(b.TotalCollected),
		FormatAmount(b.TotalDue),
		b.TransactionCount,
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top,
			totals,
			panelStyle.Render(itemsBlock(b.ItemsSummary)),
			panelStyle.Render(debtsBlock(b.CustomerDebts)),
		),
	)
}

// Messages

type batchesLoadedMsg struct {
	batches []*batch.Batch
	err     error
}

type batchExportedMsg struct {
	dir string
	err error
}

const exportTimeout = 30 * time.Second

func (m BatchesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bs, err := m.report.BatchHistory(ctx)

		return batchesLoadedMsg{batches: bs, err: err}
	}
}

// exportCmd writes the batch CSV and its text summary side by side into dir.
func (m BatchesModel) exportCmd(b *batch.Batch, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		r, err := m.export.Report(ctx, b.ID)
		if err != nil {
			return batchExportedMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return batchExportedMsg{err: fmt.Errorf("creating export directory: %w", err)}
		}

		files := []struct {
			name  string
			write func(io.Writer) error
		}{
			{
				name:  export.Filename(r.Batch, "csv"),
				write: func(w io.Writer) error { return m.export.WriteCSV(w, r) },
			},
			{
				name: export.Filename(r.Batch, "txt"),
				write: func(w io.Writer) error {
					_, err := io.WriteString(w, m.export.GenerateSummary(r))
					return err
				},
			},
		}

		for _, f := range files {
			if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
				return batchExportedMsg{err: err}
			}
		}

		return batchExportedMsg{dir: dir}
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
