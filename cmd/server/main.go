package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/ai"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/config"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/database"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/handlers"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/logger"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	cfg := config.Load()

	zl, err := logger.New(cfg.App.LogLevel, cfg.App.Dev())
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database, zl)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	st := database.NewStore(db)
	products := services.NewProductService(st, zl)
	cashier := services.NewCashierService(st, zl)
	customers := services.NewCustomerService(st, zl)

	deps := handlers.RouterDeps{
		Server:           cfg.Server,
		Log:              zl,
		DB:               sqlDB,
		Products:         products,
		Cashier:          cashier,
		Customers:        customers,
		AssistantTimeout: time.Duration(cfg.AI.Timeout) * time.Second,
	}
	if cfg.AI.APIKey != "" {
		assistant, err := ai.NewAssistant(ctx, cfg.AI, ai.NewToolbox(products, cashier, customers), zl)
		if err != nil {
			return err
		}
		defer assistant.Close()
		deps.Assistant = assistant
	} else {
		zl.Info("GEMINI_API_KEY not set, assistant disabled")
	}

	if !cfg.App.Dev() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.NewRouter(deps),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("db_provider", cfg.Database.Provider),
			zap.String("static_dir", cfg.Server.StaticDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
