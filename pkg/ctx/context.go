// Package ctx provides the request context every inkwell handler receives.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler takes a
// single *Context with helpers for params, binding, the caller identity and
// the response envelope:
//
//	func (b *BookController) Delete(c *ctx.Context) {
//	    if err := b.books.Delete(c.Context(), c.Param("id")); err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Respond(http.StatusOK, "Book deleted successfully", nil)
//	}
//
//	r.Delete("/books/{id}", "books.destroy", ctx.Wrap(books.Delete))
package ctx

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/bind"
	"github.com/shashiranjanraj/inkwell/pkg/response"
	"github.com/shashiranjanraj/inkwell/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/books/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a trimmed query-string value, "" when absent.
func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the authenticated caller attached by AuthMiddleware.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.FromContext(c.R.Context())
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. It writes a
// 400 and returns false on malformed JSON, unknown fields or rule failures.
//
//	var input RegisterInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// BindForm is BindJSON for url-encoded and multipart bodies. The named file
// parts are returned; any other file part is rejected.
func (c *Context) BindForm(dest any, maxBytes int64, files ...string) (map[string]*bind.File, bool) {
	uploaded, errs, err := bind.Form(c.R, dest, maxBytes, files...)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return nil, false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return nil, false
	}
	return uploaded, true
}

// BindBody dispatches to BindForm for form content types and BindJSON
// otherwise.
func (c *Context) BindBody(dest any, maxBytes int64, files ...string) (map[string]*bind.File, bool) {
	if bind.IsForm(c.R) {
		return c.BindForm(dest, maxBytes, files...)
	}
	return nil, c.BindJSON(dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes an envelope with the given status code.
func (c *Context) JSON(code int, v response.Envelope) {
	response.Write(c.W, code, v)
}

// Success sends a 200 envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 envelope with a message.
func (c *Context) Created(message string, data any) {
	c.Respond(http.StatusCreated, message, data)
}

// Respond sends data together with a human-readable message.
func (c *Context) Respond(code int, message string, data any) {
	c.JSON(code, response.Envelope{Status: code, Message: message, Data: data})
}

// Error sends an error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusBadRequest, response.Envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Fail writes err through the error taxonomy. See response.Fail.
func (c *Context) Fail(err error) {
	response.Fail(c.W, c.R, err)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	response.Unauthorized(c.W, message...)
}
