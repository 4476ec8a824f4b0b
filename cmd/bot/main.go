package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexibot/internal/apiclient"
	"lexibot/internal/config"
	"lexibot/internal/handler"
	"lexibot/internal/lookup"
	"lexibot/internal/middleware"
	"lexibot/internal/notify"
	"lexibot/internal/repository/postgres"
	"lexibot/internal/service"
	"lexibot/internal/supabase"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Lexi bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("api_url", cfg.API.BaseURL),
		zap.String("api_contract", cfg.API.Contract),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepo(db)
	profileRepo := postgres.NewProfileRepo(db)

	// Initialize services
	authClient := supabase.NewAuthClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.API.Timeout)
	authService := service.NewAuthService(authClient, sessionRepo, logger)
	profileService := service.NewProfileService(authService, profileRepo)
	sessionService := service.NewSessionService(sessionRepo, logger)
	gate := service.NewGate(authService, service.AllowAllSubscriptions{Logger: logger})

	// Initialize API client
	apiClient := apiclient.New(apiclient.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		Tokens:         authService,
		OnUnauthorized: authService,
		Logger:         logger,
	})
	var definer lookup.Definer = apiClient
	if cfg.API.Contract == config.ContractV1 {
		definer = apiclient.NewTermDefiner(apiClient)
	}

	notices := notify.NewRegistry()
	defer notices.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(handler.Deps{
		Bot:       bot,
		Auth:      authService,
		Profiles:  profileService,
		Gate:      gate,
		Definer:   definer,
		API:       apiClient,
		Notices:   notices,
		Limiter:   limiter,
		MockDelay: cfg.API.MockDelay,
		Logger:    logger,
	})
	h.RegisterHandlers()
	authService.OnSessionInvalidated(h.RedirectToSignIn)

	logger.Info("Handlers registered")

	// Start cleanup job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runCleanupJob(ctx, sessionService, limiter, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies the bot's own migrations. Supabase-owned tables are
// only read.
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{
		MigrationsTable: "bot_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob purges expired sessions and idle rate limiters once a day
func runCleanupJob(ctx context.Context, sessionService *service.SessionService, limiter *middleware.RateLimiter, logger *zap.Logger) {
	// Run cleanup once at startup
	if err := sessionService.PurgeExpired(); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if err := sessionService.PurgeExpired(); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
			limiter.Cleanup()
		}
	}
}
