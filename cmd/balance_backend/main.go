package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	portssvc "github.com/corebanking/balance-service/internal/core/ports/services"
	"github.com/corebanking/balance-service/internal/core/services"
	"github.com/corebanking/balance-service/internal/events"
	kafkapub "github.com/corebanking/balance-service/internal/events/kafka"
	"github.com/corebanking/balance-service/internal/handlers"
	"github.com/corebanking/balance-service/internal/middleware"
	"github.com/corebanking/balance-service/internal/repositories/database/pgsql"
	"github.com/corebanking/balance-service/pkg/config"
	"github.com/corebanking/balance-service/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Balance Ledger API
// @version 1.0
// @description Account-balance ledger: deposits, withdrawals, transfers, balance and statement queries.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/", handlers.GetHome)

	// Per-IP rate limiting for the API group
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(limitermemory.NewStore(), rate)

	// Optional transaction-completed event publishing
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafkapub.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		logger.Info("Kafka event publishing enabled", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryContainer(dbPool)
	ledgerService := services.NewLedgerService(repos.Ledger, services.NewTransactionRecorder(), publisher)
	container := &portssvc.ServiceContainer{Ledger: ledgerService}

	handlers.RegisterRoutes(r, cfg, container, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations directory.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations,
	// using the pgx/v5/stdlib driver to be compatible with the main pool.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
