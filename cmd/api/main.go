package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/assistant"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer"
	customerrepo "github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/product"
	productrepo "github.com/ovaphlow/pitchfork/service-retail-bi/internal/product/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/recommend"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/router"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales"
	salesrepo "github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the process environment is used as is
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-retail-bi")

	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	fetcher := database.NewFetcher(sqlxDB, sugar.Named("fetch"),
		database.WithRetries(cfg.MaxRetries), database.WithDelay(cfg.RetryDelay))
	memo := cache.New(cache.ConfigFromEnv())

	customerSvc := customer.NewService(customerrepo.NewRepo(fetcher), memo)
	productSvc := product.NewService(productrepo.NewRepo(fetcher), memo)
	salesSvc := sales.NewService(salesrepo.NewRepo(fetcher), memo)

	handler := router.RegisterRoutes(sugar, router.Handlers{
		Customer:  customer.NewHandler(customerSvc, sugar),
		Product:   product.NewHandler(productSvc, sugar),
		Sales:     sales.NewHandler(salesSvc, sugar),
		Assistant: assistant.NewHandler(newAssistant(sugar), sugar),
		Recommend: recommend.NewHandler(recommend.NewRecommender(loadNeighbors(sugar), productSvc, sugar), sugar),
		Memo:      memo,
		DB:        sqlDB,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              envOr("HTTP_ADDR", "0.0.0.0:8431"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

// newAssistant returns a disabled assistant when no model is configured.
func newAssistant(logger *zap.SugaredLogger) *assistant.Assistant {
	cfg := assistant.ConfigFromEnv()
	if !cfg.Enabled() {
		logger.Warnw("assistant disabled: no model configured", "provider", cfg.Provider)
		return assistant.New(nil, logger)
	}
	gen, err := assistant.NewGenerator(cfg)
	if err != nil {
		logger.Warnw("assistant disabled", "err", err)
		return assistant.New(nil, logger)
	}
	logger.Infow("assistant enabled", "provider", cfg.Provider, "model", cfg.Model)
	return assistant.New(gen, logger.Named("assistant"))
}

// loadNeighbors reads the similarity matrix named by CBF_MODEL_PATH.
func loadNeighbors(logger *zap.SugaredLogger) recommend.Neighbors {
	path := os.Getenv("CBF_MODEL_PATH")
	if path == "" {
		logger.Warn("recommendations disabled: CBF_MODEL_PATH not set")
		return nil
	}
	m, err := recommend.LoadMatrixFile(path)
	if err != nil {
		logger.Warnw("recommendations disabled", "path", path, "err", err)
		return nil
	}
	logger.Infow("similarity matrix loaded", "path", path, "products", m.Len())
	return m
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
