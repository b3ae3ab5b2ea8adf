package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	batchStore "github.com/MrJamesThe3rd/batchpos/internal/batch/store"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/batchpos/internal/catalog/store"
	"github.com/MrJamesThe3rd/batchpos/internal/clock"
	"github.com/MrJamesThe3rd/batchpos/internal/config"
	"github.com/MrJamesThe3rd/batchpos/internal/database"
	"github.com/MrJamesThe3rd/batchpos/internal/export"
	posHttp "github.com/MrJamesThe3rd/batchpos/internal/http"
	batchHandler "github.com/MrJamesThe3rd/batchpos/internal/http/batch"
	dashboardHandler "github.com/MrJamesThe3rd/batchpos/internal/http/dashboard"
	importHandler "github.com/MrJamesThe3rd/batchpos/internal/http/importcsv"
	productHandler "github.com/MrJamesThe3rd/batchpos/internal/http/product"
	txHandler "github.com/MrJamesThe3rd/batchpos/internal/http/transaction"
	"github.com/MrJamesThe3rd/batchpos/internal/importer"
	"github.com/MrJamesThe3rd/batchpos/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/batchpos/internal/ledger/store"
	"github.com/MrJamesThe3rd/batchpos/internal/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	clk := clock.New(cfg.Location())

	var (
		catalogService = catalog.NewService(catalogStore.New(db))
		ledgerService  = ledger.NewService(ledgerStore.New(db), clk)
		batchService   = batch.NewService(batchStore.New(db), clk)
		reportService  = report.NewService(ledgerService, catalogService, batchService)
		exportService  = export.NewService(batchService, ledgerService)
	)

	var (
		productH     = productHandler.NewHandler(catalogService)
		importH      = importHandler.NewHandler(importer.NewParser(), catalogService)
		transactionH = txHandler.NewHandler(ledgerService)
		batchH       = batchHandler.NewHandler(batchService, exportService)
		dashboardH   = dashboardHandler.NewHandler(reportService)
	)

	router := posHttp.New(posHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
	}, productH, importH, transactionH, batchH, dashboardH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET is empty, API is unauthenticated")
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "timezone", cfg.App.Timezone)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
