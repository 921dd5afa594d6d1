package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuecal/internal/api"
	"venuecal/internal/config"
	"venuecal/internal/domain"
	"venuecal/internal/events"
	"venuecal/internal/logging"
	"venuecal/internal/metrics"
	"venuecal/internal/models"
	"venuecal/internal/persist"
	"venuecal/internal/repository"
	"venuecal/internal/service"
	"venuecal/internal/store"
	"venuecal/internal/sweeper"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := persist.Open(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("open snapshot database")
		return err
	}
	defer db.Close()

	persister := persist.NewPersister(db, persist.DefaultRetryPolicy(), &logger)

	stores, err := buildStores(cfg, db, persister, &logger)
	if err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	embedCache := buildEmbedCache(cfg, redisClient, &logger)

	bus := events.NewEventBus()
	clock := func() int64 { return time.Now().UnixMilli() }

	deps := api.Deps{
		Bookings: service.NewBookingService(stores.bookings, stores.events, bus, clock, &logger),
		Events:   service.NewEventService(stores.events, stores.bookings, bus, &logger),
		Expenses: service.NewExpenseService(stores.expenses, bus, &logger),
		Contacts: service.NewContactService(stores.planners, stores.vendors, &logger),
		Stats:    service.NewStatsService(stores.bookings, stores.events, stores.expenses, stores.planners, clock, &logger),
		Session:  stores.session,
		Embed:    embedCache,
	}

	httpServer := api.NewHTTPServer(cfg.API, cfg.Calendar, deps, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persister flushes in the background; cancellation triggers the final
	// flush so shutdown loses nothing.
	persistCtx, persistCancel := context.WithCancel(context.Background())
	persistDone := make(chan struct{})
	go func() {
		persister.Run(persistCtx)
		close(persistDone)
	}()

	sweep := sweeper.New(stores.bookings, bus, clock, &logger)
	if err := sweep.Start(cfg.Calendar.SweepIntervalSeconds); err != nil {
		persistCancel()
		return err
	}

	backupCron := startBackups(cfg, &logger)

	startMetrics(ctx, cfg, &logger)
	startHealth(ctx, cfg, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("venue calendar started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)
	sweep.Stop()
	if backupCron != nil {
		<-backupCron.Stop().Done()
	}

	persistCancel()
	select {
	case <-persistDone:
	case <-shutdownCtx.Done():
		logger.Warn().Strs("dirty", persister.Dirty()).Msg("shutdown before all snapshots flushed")
	}

	logger.Info().Msg("venue calendar stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

type appStores struct {
	bookings *store.BookingStore
	events   *store.EventStore
	expenses *store.ExpenseStore
	planners *store.PlannerStore
	vendors  *store.VendorStore
	session  *store.SessionStore
}

// buildStores constructs the in-memory stores wired to the persister and
// restores their last snapshots.
func buildStores(cfg *config.Config, db *persist.DB, persister *persist.Persister, logger *zerolog.Logger) (*appStores, error) {
	now := func() int64 { return time.Now().UnixMilli() }

	s := &appStores{
		bookings: store.NewBookingStore(now, persister.MarkDirty),
		events:   store.NewEventStore(now, persister.MarkDirty),
		expenses: store.NewExpenseStore(now, persister.MarkDirty),
		planners: store.NewPlannerStore(now, persister.MarkDirty),
		vendors:  store.NewVendorStore(now, persister.MarkDirty),
		session:  store.NewSessionStore(persister.MarkDirty),
	}

	persister.Register(store.NameBookings, func() ([]byte, error) {
		snap := s.bookings.Snapshot()
		metrics.SetStoreSize(store.NameBookings, len(snap.Bookings))
		return json.Marshal(snap)
	})
	persister.Register(store.NameEvents, func() ([]byte, error) {
		snap := s.events.Snapshot()
		metrics.SetStoreSize(store.NameEvents, len(snap))
		return json.Marshal(snap)
	})
	persister.Register(store.NameExpenses, func() ([]byte, error) {
		snap := s.expenses.Snapshot()
		metrics.SetStoreSize(store.NameExpenses, len(snap.Expenses))
		return json.Marshal(snap)
	})
	persister.Register(store.NamePlanners, func() ([]byte, error) {
		snap := s.planners.Snapshot()
		metrics.SetStoreSize(store.NamePlanners, len(snap))
		return json.Marshal(snap)
	})
	persister.Register(store.NameVendors, func() ([]byte, error) {
		snap := s.vendors.Snapshot()
		metrics.SetStoreSize(store.NameVendors, len(snap))
		return json.Marshal(snap)
	})
	persister.Register(store.NameSession, func() ([]byte, error) { return json.Marshal(s.session.Snapshot()) })

	ctx := context.Background()

	restored, err := restoreSnapshot(ctx, db, store.NameBookings, func(raw []byte) error {
		var snap store.BookingSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return err
		}
		s.bookings.Restore(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !restored {
		// First run: the configured hold duration seeds the store.
		if err := s.bookings.SetHoldDurationDays(cfg.Calendar.HoldDays); err != nil {
			return nil, err
		}
	}

	if _, err := restoreSnapshot(ctx, db, store.NameEvents, func(raw []byte) error {
		var snap map[string]*models.VenueEvent
		if err := json.Unmarshal(raw, &snap); err != nil {
			return err
		}
		s.events.Restore(snap)
		return nil
	}); err != nil {
		return nil, err
	}

	if _, err := restoreSnapshot(ctx, db, store.NameExpenses, func(raw []byte) error {
		var snap store.ExpenseSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return err
		}
		s.expenses.Restore(snap)
		return nil
	}); err != nil {
		return nil, err
	}

	if _, err := restoreSnapshot(ctx, db, store.NamePlanners, func(raw []byte) error {
		var snap map[string]*models.Planner
		if err := json.Unmarshal(raw, &snap); err != nil {
			return err
		}
		s.planners.Restore(snap)
		return nil
	}); err != nil {
		return nil, err
	}

	if _, err := restoreSnapshot(ctx, db, store.NameVendors, func(raw []byte) error {
		var snap map[string]*models.Vendor
		if err := json.Unmarshal(raw, &snap); err != nil {
			return err
		}
		s.vendors.Restore(snap)
		return nil
	}); err != nil {
		return nil, err
	}

	if _, err := restoreSnapshot(ctx, db, store.NameSession, func(raw []byte) error {
		var snap store.SessionSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return err
		}
		s.session.Restore(snap)
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Info().Msg("stores restored from snapshots")
	return s, nil
}

// restoreSnapshot loads one store's snapshot, tolerating a missing row.
func restoreSnapshot(ctx context.Context, db *persist.DB, name string, apply func([]byte) error) (bool, error) {
	raw, err := db.LoadSnapshot(ctx, name)
	if errors.Is(err, persist.ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := apply(raw); err != nil {
		return false, fmt.Errorf("restore %s snapshot: %w", name, err)
	}
	return true, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func buildEmbedCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.EmbedCache {
	ttl := time.Duration(cfg.Calendar.EmbedCacheTTLSeconds) * time.Second
	memory := repository.NewMemoryEmbedCache(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverEmbedCache(repository.NewRedisEmbedCache(redisClient, ttl), memory, logger)
}

func startBackups(cfg *config.Config, logger *zerolog.Logger) *cron.Cron {
	if !cfg.Backup.Enabled {
		return nil
	}

	backups := persist.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	c := cron.New()
	if _, err := c.AddFunc(cfg.Backup.Schedule, func() {
		if err := backups.PerformBackup(); err != nil {
			logger.Error().Err(err).Msg("scheduled backup failed")
		}
		backups.CleanupOldBackups()
	}); err != nil {
		logger.Error().Err(err).Str("schedule", cfg.Backup.Schedule).Msg("invalid backup schedule")
		return nil
	}
	c.Start()
	logger.Info().Str("schedule", cfg.Backup.Schedule).Msg("backups scheduled")
	return c
}

// startHealth serves the liveness probe on its own port so load balancers
// can check the process without an API key or the main listener.
func startHealth(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","version":%q}`, cfg.App.Version)
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Monitoring.HealthCheckPort), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server error")
		}
	}()
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
