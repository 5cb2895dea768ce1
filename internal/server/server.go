// Package server boots the process-wide dependencies and runs the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/cache"
	"github.com/shashiranjanraj/inkwell/pkg/database"
	"github.com/shashiranjanraj/inkwell/pkg/event"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
	"github.com/shashiranjanraj/inkwell/pkg/storage"
	"github.com/shashiranjanraj/inkwell/pkg/workerpool"
)

const shutdownTimeout = 15 * time.Second

// Runtime holds what Boot opened so Close can release it.
type Runtime struct {
	Store *repositories.Store
	pool  *workerpool.Pool
}

// OpenStore connects to the configured database and returns the matching
// repository backend.
func OpenStore(ctx context.Context) (*repositories.Store, error) {
	if err := database.Connect(ctx); err != nil {
		return nil, err
	}
	if database.Mongo != nil {
		return repositories.NewMongoStore(database.Mongo), nil
	}
	return repositories.NewSQLStore(database.DB, config.DatabaseDriver()), nil
}

// Boot loads config and opens the store, cache, storage disks and the event
// worker pool. The cache is optional: a failed Redis ping only logs.
func Boot(ctx context.Context) (*Runtime, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := logger.Setup(); err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: open store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = database.Close(ctx)
		return nil, fmt.Errorf("server: migrate: %w", err)
	}

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache disabled", "error", err)
	}
	storage.Connect(ctx)

	pool := workerpool.New(runtime.NumCPU()).OnPanic(func(v interface{}) {
		logger.Error("event listener panicked", "panic", v)
	})
	event.UsePool(pool)
	services.RegisterListeners()

	warnInsecureDefaults()
	logger.Info("booted",
		"env", config.AppEnv(),
		"driver", store.Driver,
		"cache", cache.Enabled(),
		"disk", config.StorageDefault(),
	)
	return &Runtime{Store: store, pool: pool}, nil
}

func warnInsecureDefaults() {
	if config.IsProduction() && config.UsingDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set; tokens are signed with the development default")
	}
}

// Close drains pending events and closes every connection Boot opened.
func (rt *Runtime) Close(ctx context.Context) {
	if rt.pool != nil {
		rt.pool.Shutdown()
	}
	if err := cache.Close(); err != nil {
		logger.Warn("cache close failed", "error", err)
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("database close failed", "error", err)
	}
	logger.Close()
}

// Start serves handler on APP_PORT until ctx is cancelled or the process
// receives SIGINT/SIGTERM, then drains in-flight requests.
func Start(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
