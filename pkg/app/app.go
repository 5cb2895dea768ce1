// Package app assembles the HTTP handler: the global middleware stack, the
// operational endpoints and whatever routes the caller registers.
//
//	handler := app.New().
//	    Routes(routes.API(svc)).
//	    Health(database.Ping).
//	    Handler()
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/router"
)

// Application collects route callbacks and kernel options.
type Application struct {
	routesFns []func(*router.Router)
	health    func(ctx context.Context) error
	rateLimit int
	window    time.Duration
	files     http.Handler
}

// New returns an Application with the configured rate limit.
func New() *Application {
	return &Application{
		rateLimit: config.RateLimit(),
		window:    time.Minute,
	}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Health sets the check behind GET /healthz.
func (a *Application) Health(check func(ctx context.Context) error) *Application {
	a.health = check
	return a
}

// RateLimit overrides the per-client request budget per window. max <= 0
// disables limiting.
func (a *Application) RateLimit(max int, window time.Duration) *Application {
	a.rateLimit, a.window = max, window
	return a
}

// Files serves h under /storage/.
func (a *Application) Files(h http.Handler) *Application {
	a.files = h
	return a
}

// Router builds a bare router with only the registered routes, for listing.
func (a *Application) Router() *router.Router {
	r := router.New()
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}
