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

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Suraj-070/worduel/internal/config"
	"github.com/Suraj-070/worduel/internal/history"
	"github.com/Suraj-070/worduel/internal/httpapi"
	"github.com/Suraj-070/worduel/internal/hub"
	"github.com/Suraj-070/worduel/internal/match"
	"github.com/Suraj-070/worduel/internal/words"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "worduel:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	repo, err := words.Load(words.Options{
		WordlistPath:   cfg.WordlistPath,
		DictionaryPath: cfg.DictionaryPath,
	}, log.Named("words"))
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}

	store, err := openHistory(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timings := match.DefaultTimings()
	timings.Grace = cfg.GracePeriod

	// Build the hub first; the router gets it injected.
	h := hub.NewHub(ctx, hub.Config{
		Words:         repo,
		Store:         store,
		Timings:       timings,
		RematchWindow: cfg.RematchWindow,
		Logger:        log,
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:            h,
			Words:          repo,
			History:        store,
			OriginPatterns: cfg.AllowedOrigins,
			Logger:         log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.Send(hub.ShutdownHub{})
		return multierr.Combine(srv.Shutdown(sctx), store.Close())
	})
	return g.Wait()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zc.Build()
}

func openHistory(cfg config.Config, log *zap.Logger) (history.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("match history kept in memory")
		return history.NewMemory(history.MaxLimit), nil
	}
	store, err := history.OpenPostgres(cfg.DatabaseURL, log.Named("history"))
	if err != nil {
		return nil, err
	}
	return store, nil
}
