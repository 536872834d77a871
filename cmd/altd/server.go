package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"altd/internal/captioner"
	"altd/internal/config"
	"altd/internal/httpapi"
	"altd/internal/registry"
	"altd/internal/store"
)

const shutdownTimeout = 15 * time.Second

func run(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	log := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	models, err := registry.Build(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, err := store.Open(ctx, cfg.Cache.DSN, cfg.Cache.MemoryEntries, cfg.CacheMaxAge())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	mgr := captioner.NewWithConfig(captioner.Config{
		Registry:       models,
		DefaultModel:   cfg.DefaultModel,
		Backends:       captioner.DefaultBackends(cfg),
		Cache:          cache,
		MaxImageSide:   cfg.MaxImageSide,
		MaxImagePixels: cfg.MaxImagePixels,
		LoadTimeout:    cfg.LoadTimeout(),
		MaxQueueDepth:  cfg.MaxQueueDepth,
		MaxWait:        time.Duration(cfg.MaxWaitMS) * time.Millisecond,
		DrainTimeout:   time.Duration(cfg.DrainTimeoutMS) * time.Millisecond,
		Publisher:      captioner.NewLogPublisher(log),
		Logger:         &log,
	})
	defer func() { _ = mgr.Close() }()
	if _, err := mgr.Resolve(cfg.DefaultModel); err != nil {
		return err
	}

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(int64(cfg.MaxUploadMB) << 20)
	httpapi.SetCaptionTimeoutSeconds(int64(cfg.CaptionTimeout() / time.Second))
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
	httpapi.SetSwaggerEnabled(cfg.Swagger)

	if !cfg.NoPreload {
		go func() {
			if err := mgr.Preload(ctx, cfg.DefaultModel); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Str("model", cfg.DefaultModel).Msg("preload failed; will retry on first request")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("default_model", cfg.DefaultModel).Int("models", len(models)).Msg("altd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
