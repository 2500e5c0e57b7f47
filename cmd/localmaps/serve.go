package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/localmaps/internal/config"
	"github.com/kailas-cloud/localmaps/internal/metrics"
	chiTransport "github.com/kailas-cloud/localmaps/internal/transport/chi"
	accountuc "github.com/kailas-cloud/localmaps/internal/usecase/account"
	favoritesuc "github.com/kailas-cloud/localmaps/internal/usecase/favorites"
	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
	usageuc "github.com/kailas-cloud/localmaps/internal/usecase/usage"
	"github.com/kailas-cloud/localmaps/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, env, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(env, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := serve(ctx, cfg, env, logger); err != nil {
				logger.Error("Server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func serve(ctx context.Context, cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting localmaps API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Register collectors explicitly (no init())
	metrics.Register()

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	budget := newBudget(ctx, cfg, st.counters, logger)
	p := newProviders(cfg, budget, logger)
	if !p.places.Configured() {
		logger.Warn("Places API key is not set; searches will fail with REQUEST_DENIED")
	}
	if !p.classifier.Configured() {
		logger.Warn("Classifier API key is not set; searches return unfiltered results")
	}

	searchSvc := newSearchService(cfg, p, st.cache, budget, logger)
	accountSvc := accountuc.New(st.accounts, accountuc.Options{
		SessionTTL: cfg.SessionTTL(),
		BcryptCost: cfg.Auth.BcryptCost,
	})
	favoritesSvc := favoritesuc.New(st.favorites)
	healthSvc := healthuc.New(st.pinger, p.places, p.classifier)
	usageSvc := usageuc.New(nil)
	if budget != nil {
		usageSvc = usageuc.New(budget)
	}

	server := chiTransport.NewServer(searchSvc, accountSvc, favoritesSvc, healthSvc, usageSvc, logger,
		chiTransport.Options{DefaultRadiusMeters: cfg.Places.DefaultRadiusMeters})
	limiter := chiTransport.NewRateLimiter(cfg.RateLimit.SearchPerMinute, cfg.RateLimit.Burst)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chiTransport.NewRouter(server, limiter),
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
