// Package event provides a small in-process event dispatcher. Listeners run
// synchronously with Fire or on the bounded worker pool with FireAsync.
package event

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/inkwell/pkg/logger"
	"github.com/shashiranjanraj/inkwell/pkg/metrics"
	"github.com/shashiranjanraj/inkwell/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	pool     *workerpool.Pool
)

// UsePool routes FireAsync deliveries through p. Without a pool FireAsync
// starts one goroutine per listener.
func UsePool(p *workerpool.Pool) {
	mu.Lock()
	defer mu.Unlock()
	pool = p
}

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) ([]Handler, *workerpool.Pool) {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs, pool
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	hs, _ := snapshot(event)
	for _, h := range hs {
		h(payload)
	}
}

// FireAsync hands each listener to the worker pool and returns immediately.
// Deliveries the pool rejects are counted and logged, never retried.
func FireAsync(event string, payload interface{}) {
	hs, p := snapshot(event)

	for _, h := range hs {
		h := h
		task := func() { h(payload) }

		if p == nil {
			go safe(event, task)
			continue
		}

		if err := p.Submit(task); err != nil {
			metrics.EventsDropped.WithLabelValues(event).Inc()
			level := logger.Warn
			if errors.Is(err, workerpool.ErrPoolClosed) {
				level = logger.Debug
			}
			level("event delivery dropped", "event", event, "error", err)
		}
	}
}

func safe(event string, task func()) {
	defer func() {
		if v := recover(); v != nil {
			logger.Error("event listener panicked", "event", event, "panic", fmt.Sprint(v))
		}
	}()
	task()
}

// Flush removes all listeners and detaches the pool (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
	pool = nil
}
