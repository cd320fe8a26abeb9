// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"go-finance-api/config"
	"go-finance-api/db"
	"go-finance-api/handler"
	"go-finance-api/logger"
	"go-finance-api/ratelimit"
	"go-finance-api/repository"
	"go-finance-api/router"
	"go-finance-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// App is the fully wired HTTP application. Redis is optional.
type App struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
}

// New wires repositories, services and handlers on top of already opened connections.
func New(cfg config.Config, database *sql.DB, rdb *redis.Client) (*App, error) {
	tokens, err := service.NewTokenServiceFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	// A nil *redis.Client stored in the interface would not compare equal to nil.
	var cache service.ICacheClient
	var limiter ratelimit.Limiter
	if rdb != nil {
		cache = rdb
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.LoginLimit, cfg.RateLimit.Window, "")
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginLimit, cfg.RateLimit.Window)
	}

	// Layers for Auth
	accountRepo := repository.NewAccountRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	authService := service.NewAuthService(database, accountRepo, tokenRepo, service.NewPasswordHasher(cfg.Security.BcryptCost), tokens)
	authHandler := handler.NewAuthHandler(authService, limiter)

	// Layers for Categories and Transactions
	categoryRepo := repository.NewCategoryRepository(database)
	categoryService := service.NewCategoryService(categoryRepo)
	transactionRepo := repository.NewTransactionRepository(database)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, cache)

	r := router.NewRouter(router.Handlers{
		Auth:         authHandler,
		Categories:   handler.NewCategoryHandler(categoryService),
		Transactions: handler.NewTransactionHandler(transactionService),
		Health:       handler.NewHealthHandler(database),
		Verifier:     tokens,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})

	return &App{DB: database, Redis: rdb, Router: r}, nil
}

func Run() {
	logger.Init()
	config.LoadConfig(".")
	cfg := config.AppConfig
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatalf("Error running database migrations: %v", err)
	}

	rdb, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	application, err := New(cfg, database, rdb)
	if err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			logger.Log.Fatalf("Refusing to start: %v", err)
		}
		logger.Log.Fatalf("Error wiring application: %v", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
