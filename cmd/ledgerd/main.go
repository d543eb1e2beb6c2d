package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	kafkaevents "github.com/SscSPs/ledger_service/internal/adapters/events/kafka"
	prommetrics "github.com/SscSPs/ledger_service/internal/adapters/metrics/prometheus"
	"github.com/SscSPs/ledger_service/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_service/internal/core/services"
	"github.com/SscSPs/ledger_service/internal/handlers"
	"github.com/SscSPs/ledger_service/internal/middleware"
	"github.com/SscSPs/ledger_service/internal/platform/config"
	"github.com/SscSPs/ledger_service/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_service/internal/repositories/memory"
	"github.com/SscSPs/ledger_service/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// @title Ledger Service API
// @version 1.0
// @description Double-entry ledger with derived balances and atomic transfers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := prommetrics.NewCollector(cfg.MetricsNamespace)
	if err := metrics.Register(registry); err != nil {
		return err
	}

	var publisher ports.EventPublisher = ports.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafkaevents.NewPublisher(kafkaevents.Config{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaTopic,
			OnStateChange: metrics.ObserveCircuitState,
		})
		defer func() {
			if cerr := kp.Close(); cerr != nil {
				logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
			}
		}()
		publisher = kp
		logger.Info("Publishing transfer events", slog.String("topic", cfg.KafkaTopic), slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("KAFKA_BROKERS not set, transfer events are discarded")
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher, metrics)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), metrics.GinMiddleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
		r.Use(cors.New(corsCfg))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, metricsHandler); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRepositories builds the configured storage backend. The returned func
// releases it.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:         cfg.DBMaxConns,
			StatementTimeout: cfg.DBStatementTimeout,
			Ping:             cfg.EnableDBCheck,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}
