// Command report renders the financial workbook from the stored
// snapshots, without needing the API server to be running.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"venuecal/internal/config"
	"venuecal/internal/export"
	"venuecal/internal/finance"
	"venuecal/internal/logging"
	"venuecal/internal/models"
	"venuecal/internal/persist"
	"venuecal/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	outDir := flag.String("out", "", "Output directory (overrides config exports path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := persist.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open snapshot database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	events, err := loadEvents(ctx, db)
	if err != nil {
		return err
	}
	expenses, err := loadExpenses(ctx, db)
	if err != nil {
		return err
	}

	admin := models.User{ID: "admin-1", Role: models.RoleAdmin}
	summary := finance.Summarize(admin, events, expenses)

	exportPath := cfg.Exports.Path
	if *outDir != "" {
		exportPath = *outDir
	}

	reporter := export.NewReporter(exportPath, logger)
	path, err := reporter.FinancialReport(events, expenses, summary)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Println(path)
	return nil
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

func loadEvents(ctx context.Context, db *persist.DB) ([]*models.VenueEvent, error) {
	raw, err := db.LoadSnapshot(ctx, store.NameEvents)
	if errors.Is(err, persist.ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap map[string]*models.VenueEvent
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode events snapshot: %w", err)
	}

	// Reuse the store's date-ascending ordering for the sheet.
	st := store.NewEventStore(nil, nil)
	st.Restore(snap)
	return st.All(), nil
}

func loadExpenses(ctx context.Context, db *persist.DB) ([]*models.VenueExpense, error) {
	raw, err := db.LoadSnapshot(ctx, store.NameExpenses)
	if errors.Is(err, persist.ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap store.ExpenseSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode expenses snapshot: %w", err)
	}

	st := store.NewExpenseStore(nil, nil)
	st.Restore(snap)
	return st.All(), nil
}
