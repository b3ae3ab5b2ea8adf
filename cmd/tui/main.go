package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/batchpos/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	batchStore "github.com/MrJamesThe3rd/batchpos/internal/batch/store"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/batchpos/internal/catalog/store"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/config"
	"github.com/MrJamesThe3rd/batchpos/internal/database"
	"github.com/MrJamesThe3rd/batchpos/internal/export"
	"github.com/MrJamesThe3rd/batchpos/internal/importer"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/batchpos/internal/ledger/store"
	"github.com/MrJamesThe3rd/batchpos/internal/report"
)

type model struct {
	appName string

	catalogService *catalog.Service
	ledgerService  *ledger.Service
	batchService   *batch.Service
	reportService  *report.Service
	exportService  *export.Service
	parser         *importer.Parser

	// active is nil while the menu is shown.
	active view.View
	size   tea.WindowSizeMsg
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	clk := clock.New(cfg.Location())

	catalogSvc := catalog.NewService(catalogStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db), clk)
	batchSvc := batch.NewService(batchStore.New(db), clk)

	return model{
		appName:        cfg.App.Name,
		catalogService: catalogSvc,
		ledgerService:  ledgerSvc,
		batchService:   batchSvc,
		reportService:  report.NewService(ledgerSvc, catalogSvc, batchSvc),
		exportService:  export.NewService(batchSvc, ledgerSvc),
		parser:         importer.NewParser(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.active == nil {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.active = nil
		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var v view.View

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		v = view.NewProductsModel(m.catalogService, m.parser)
	case "2":
		v = view.NewSaleModel(m.catalogService, m.ledgerService)
	case "3":
		v = view.NewTransactionsModel(m.ledgerService)
	case "4":
		v = view.NewRecycleBinModel(m.ledgerService)
	case "5":
		v = view.NewDashboardModel(m.reportService, m.batchService)
	case "6":
		v = view.NewBatchesModel(m.reportService, m.exportService)
	default:
		return m, nil
	}

	m.active = v

	// Views size themselves from WindowSizeMsg, which only arrives on resize.
	var sized tea.Model = v
	if m.size.Width > 0 {
		sized, _ = v.Update(m.size)
	}

	if sv, ok := sized.(view.View); ok {
		m.active = sv
	}

	return m, m.active.Init()
}

func (m model) View() string {
	if m.active != nil {
		help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.active.ShortHelp())
		return m.active.View() + "\n" + help
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render(m.appName)

	return lipgloss.NewStyle().Padding(2).Render(
		title + "\n\n" +
			"1. Catalog\n" +
			"2. New Sale\n" +
			"3. Transactions\n" +
			"4. Recycle Bin\n" +
			"5. Dashboard\n" +
			"6. Batch History\n\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
