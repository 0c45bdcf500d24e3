package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/karma-storefront/internal/journal"
	"github.com/jcmexdev/karma-storefront/internal/journal/sqlite"
	"github.com/jcmexdev/karma-storefront/internal/pkg/cache"
	"github.com/jcmexdev/karma-storefront/internal/pkg/config"
	"github.com/jcmexdev/karma-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/karma-storefront/internal/storefront/app"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/adapters/productsource"
	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/health"
	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/karma-storefront/internal/storefront/session"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.InitLogger("info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("storefront stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("storefront stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdown, err := telemetry.SetupTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint, cfg.Environment)
	if err != nil {
		return errors.Wrap(err, "initialise tracer")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	healthSrv := health.NewServer()

	client, err := productsource.NewHTTPClient(productsource.Config{
		BaseURL:            cfg.ProductSource.URL,
		Timeout:            cfg.ProductSource.Timeout,
		BreakerMaxFailures: cfg.ProductSource.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.ProductSource.BreakerOpenTimeout,
		OnBreakerChange:    healthSrv.SetProductSourceOpen,
	}, nil)
	if err != nil {
		return err
	}

	var source ports.ProductSource = client
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Telemetry.ServiceName)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			// reads fall through to the source while redis is down
			slog.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err)
		}
		source = productsource.NewCached(client, redisCache, cfg.Redis.CacheTTL)
		slog.Info("product cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	// nil-safe: the storefront skips journaling when repo is nil
	var repo journal.Repository
	if cfg.JournalPath != "" {
		db, err := sqlite.Open(cfg.JournalPath)
		if err != nil {
			return errors.Wrap(err, "open cart journal")
		}
		defer db.Close()
		repo = db
		slog.Info("cart journal enabled", "path", cfg.JournalPath)
	}

	sessions := session.NewRegistry(cfg.Session.IdleTTL)
	store := app.New(source, sessions, repo)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(httpx.NewHandler(store)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.GRPCAddr)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("storefront HTTP running", "addr", cfg.HTTPAddr, "product_source", cfg.ProductSource.URL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("storefront gRPC health running", "addr", cfg.GRPCAddr)
		return errors.Wrap(healthSrv.Serve(lis), "grpc server")
	})

	g.Go(func() error {
		return sessions.Run(gctx, cfg.Session.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		healthSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
