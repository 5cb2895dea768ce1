// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger the request middleware attached to the context,
// already tagged with the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
//	// → time=... level=INFO msg="order placed" request_id=3f1c... order_id=...
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/inkwell/config"
)

var (
	L *slog.Logger

	closeMu sync.Mutex
	closers []func()
)

func init() {
	L = slog.New(stdoutHandler())
	slog.SetDefault(L)
}

func stdoutHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup rebuilds the base logger for the configured LOG_DRIVER. With "mongo"
// records go to stdout and to the logs collection of MONGO_DATABASE.
func Setup() error {
	handler := stdoutHandler()

	if config.LogDriver() == "mongo" {
		mh, err := NewMongoHandler(config.MongoURI(), config.MongoDatabase(), "logs")
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		closeMu.Lock()
		closers = append(closers, mh.Close)
		closeMu.Unlock()
		handler = NewMultiHandler(handler, mh)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
	return nil
}

// Close flushes and releases every handler opened by Setup.
func Close() {
	closeMu.Lock()
	defer closeMu.Unlock()
	for _, c := range closers {
		c()
	}
	closers = nil
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the per-request logger stored by InjectLogger, or the base
// logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx. Called by the Logger
// middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
