package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/alessandrotostes/controle-de-gastos/internal/amqp"
	"github.com/alessandrotostes/controle-de-gastos/internal/config"
	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/export/sheets"
	"github.com/alessandrotostes/controle-de-gastos/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting gastos-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.SheetsExportEnabled() {
		logger.Error("Worker requires Google Sheets export configuration (GOOGLE_SPREADSHEET_ID)")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter, err := sheets.New(ctx, sheets.Options{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		SheetName:     cfg.GoogleSheetName,
		ClientJSON:    cfg.GoogleOAuthClientJSON,
		ClientFile:    cfg.GoogleOAuthClientFile,
		TokenJSON:     cfg.GoogleOAuthTokenJSON,
		TokenFile:     cfg.GoogleOAuthTokenFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets reporter", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets reporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	handler := func(msg *amqp.RecordChangeMessage) error {
		return exportMonth(ctx, repo, reporter, msg)
	}

	if err := amqpClient.ConsumeRecordChanges(ctx, handler); err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	// Give in-flight handlers a moment before closing connections.
	logger.Info("Shutting down worker...")
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

// exportMonth recomputes the month named by the change message and writes
// the report row. Goal and category changes carry no monthly totals, they
// are skipped.
func exportMonth(ctx context.Context, repo *storage.SQLiteRepository, reporter *sheets.Reporter, msg *amqp.RecordChangeMessage) error {
	switch msg.Collection {
	case amqp.CollectionExpenses, amqp.CollectionIncomes, amqp.CollectionBudgets:
	default:
		return nil
	}

	month, err := core.ParseMonth(msg.Month)
	if err != nil {
		return fmt.Errorf("parse month %q: %w", msg.Month, err)
	}

	expenses, err := repo.ListExpenses(ctx, msg.FamilyID, month)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	incomes, err := repo.ListIncomes(ctx, msg.FamilyID, month)
	if err != nil {
		return fmt.Errorf("list incomes: %w", err)
	}
	summary := core.ComputeMonthlySummary(expenses, incomes)

	return reporter.ExportMonthlyReport(ctx, msg.FamilyID, month, summary)
}
