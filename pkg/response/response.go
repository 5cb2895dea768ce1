// Package response writes the JSON envelope every endpoint answers with:
//
//	{"status":200,"data":...}
//	{"status":400,"message":"...","errors":{"field":"msg"}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/inkwell/pkg/apperror"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Write encodes body with the given status.
func Write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, http.StatusBadRequest, Envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Fail maps err onto the envelope. *apperror.Error values keep their status
// and message; 5xx causes and any other error are logged against the request
// and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperror.As(err)
	if !ok {
		logger.WithCtx(r.Context()).Error("unhandled error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if e.Code >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error(e.Message,
			"method", r.Method, "path", r.URL.Path, "error", err)
	}

	body := Envelope{Status: e.Code, Message: e.Message}
	if len(e.Fields) > 0 {
		body.Errors = e.Fields
	}
	Write(w, e.Code, body)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message ...string) {
	Error(w, http.StatusUnauthorized, first(message, "Unauthorized"))
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message ...string) {
	Error(w, http.StatusForbidden, first(message, "Forbidden"))
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message ...string) {
	Error(w, http.StatusNotFound, first(message, "Not found"))
}

func first(list []string, def string) string {
	if len(list) > 0 && list[0] != "" {
		return list[0]
	}
	return def
}
