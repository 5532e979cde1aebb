package main

import (
	"DentistAPI/cache"
	"DentistAPI/config"
	"DentistAPI/database"
	"DentistAPI/metrics"
	"DentistAPI/routes"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dentistapi",
		Short:         "Dental clinic patient records API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createStaffCmd())
	rootCmd.AddCommand(seedCatalogCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, log)
		},
	}
}

// setup loads the configuration and builds the process logger.
func setup() (*config.AppConfig, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newLogger(cfg *config.AppConfig) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	return log, nil
}

func runServer(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) error {
	// Initialize the database
	db, err := database.InitDB(ctx, cfg.DB, log, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}()

	store, closeCache := newCacheStore(ctx, cfg, log)
	defer closeCache()

	handler, err := routes.SetupRoutes(cfg, db, store, log)
	if err != nil {
		return err
	}

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":" + cfg.HTTPPort,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go reportDBStats(statsCtx, db, time.Minute)

	serverErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	wg.Wait()
	log.Info("Server exited gracefully")
	return nil
}

// newCacheStore connects to Redis when it is configured. Without Redis, or
// when it cannot be reached, catalog reads go straight to the database.
func newCacheStore(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (cache.Store, func()) {
	noop := func() {}
	if cfg.Redis.URL == "" {
		log.Info("REDIS_URL not set, catalog cache disabled")
		return cache.Noop{}, noop
	}

	client, err := database.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, catalog cache disabled")
		return cache.Noop{}, noop
	}
	store, err := cache.NewCache(client)
	if err != nil {
		_ = client.Close()
		log.WithError(err).Warn("Failed to initialize cache, catalog cache disabled")
		return cache.Noop{}, noop
	}
	return store, func() { closeRedis(client, log) }
}

func closeRedis(client *redis.Client, log *logrus.Logger) {
	database.LogRedisPool(client, log)
	if err := client.Close(); err != nil {
		log.WithError(err).Warn("Failed to close Redis client")
	}
}

func reportDBStats(ctx context.Context, db *gorm.DB, every time.Duration) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		metrics.RecordDBStats(sqlDB.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
