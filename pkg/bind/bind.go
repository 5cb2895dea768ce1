// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/validate"
)

// ErrUnknownField is returned when the body names a field the target struct
// does not declare.
var ErrUnknownField = errors.New("unknown field")

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES and fields not declared on dest are
// rejected. Returns (errs, nil) when there are validation failures and
// (nil, err) when the body is malformed, too large or has unknown fields.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, errors.New("request body is empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			name := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return nil, fmt.Errorf("%w %s", ErrUnknownField, name)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return check(dest), nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// IsForm reports whether r carries a url-encoded or multipart form body.
func IsForm(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// File is an uploaded file taken from a multipart body.
type File struct {
	Header *multipart.FileHeader
}

// Form parses a url-encoded or multipart body into dest using the `json` tag
// names as form keys. Multipart file parts named in files are returned
// separately and are not treated as unknown fields. Supported field kinds are
// string, float64, int and pointers to them.
func Form(r *http.Request, dest interface{}, maxBytes int64, files ...string) (map[string]*File, map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+(1<<20))

	var values url.Values
	uploaded := map[string]*File{}

	if IsMultipart(r) {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, nil, formError(err, maxBytes)
		}
		values = r.MultipartForm.Value
		for name, headers := range r.MultipartForm.File {
			if !contains(files, name) {
				return nil, nil, fmt.Errorf("%w %q", ErrUnknownField, name)
			}
			if len(headers) > 0 {
				uploaded[name] = &File{Header: headers[0]}
			}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, nil, formError(err, maxBytes)
		}
		values = r.PostForm
	}

	if err := assign(values, dest); err != nil {
		return nil, nil, err
	}
	return uploaded, check(dest), nil
}

func formError(err error, maxBytes int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return fmt.Errorf("request body too large (max %d bytes)", maxBytes)
	}
	return fmt.Errorf("invalid form body: %w", err)
}

func check(dest interface{}) map[string]string {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs
	}
	return nil
}

func assign(values url.Values, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errors.New("bind: destination must be a pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	fields := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = i
	}

	for key, vals := range values {
		idx, ok := fields[key]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownField, key)
		}
		if len(vals) == 0 {
			continue
		}
		if err := setField(rv.Field(idx), strings.TrimSpace(vals[0])); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

func setField(f reflect.Value, raw string) error {
	if f.Kind() == reflect.Ptr {
		p := reflect.New(f.Type().Elem())
		if err := setField(p.Elem(), raw); err != nil {
			return err
		}
		f.Set(p)
		return nil
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return errors.New("must be a number")
		}
		f.SetFloat(n)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return errors.New("must be an integer")
		}
		f.SetInt(n)
	default:
		return fmt.Errorf("unsupported field kind %s", f.Kind())
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
