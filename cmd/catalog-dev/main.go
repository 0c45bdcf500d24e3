// Command catalog-dev serves the in-memory mock catalog over the product
// source HTTP API so the storefront can run without the real catalog.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/karma-storefront/internal/catalog-service/httpx"
	"github.com/jcmexdev/karma-storefront/internal/pkg/config"
	"github.com/jcmexdev/karma-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/adapters/productsource"
)

type devConfig struct {
	Addr     string `default:":8001"`
	LogLevel string `split_words:"true" default:"info"`
}

func main() {
	var cfg devConfig
	if err := config.Process("CATALOG", &cfg); err != nil {
		telemetry.InitLogger("info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.NewRouter(httpx.NewHandler(productsource.NewMockCatalog())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("dev catalog running", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
