package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/inkwell/pkg/logger"
	"github.com/shashiranjanraj/inkwell/pkg/metrics"
	"github.com/shashiranjanraj/inkwell/pkg/middleware"
	"github.com/shashiranjanraj/inkwell/pkg/reqid"
	"github.com/shashiranjanraj/inkwell/pkg/response"
	"github.com/shashiranjanraj/inkwell/pkg/router"
)

// Handler builds the http.Handler.
//
// Global middleware, outermost first:
//  1. metrics    total latency per route pattern
//  2. recovery   panics become a 500 envelope
//  3. request id before anything logs
//  4. logger     one line per request
//  5. CORS
//  6. rate limit per client IP
func (a *Application) Handler() http.Handler {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if a.rateLimit > 0 {
		r.Use(middleware.RateLimit(a.rateLimit, a.window))
	}

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", a.healthz)
	if a.files != nil {
		r.Handle("/storage/*", "storage", http.StripPrefix("/storage/", a.files))
	}

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r.Handler()
}

func (a *Application) healthz(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.health(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
			response.Error(w, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
	}
	response.Success(w, map[string]string{"status": "ok"})
}
