// Package http is a small fluent HTTP client used by pkg/client.
//
//	resp, err := http.Get(base + "/api/books").
//	    Bearer(token).
//	    Timeout(5 * time.Second).
//	    Send()
//
//	resp, err := http.Post(base + "/api/books").
//	    Bearer(token).
//	    Multipart(map[string]string{"title": "Dune"}, &http.FilePart{Field: "image", Name: "dune.png", Data: png}).
//	    Send()
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/inkwell/pkg/logger"
)

var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is used when no client is set on the request.
var DefaultClient = &gohttp.Client{Transport: defaultTransport}

// FilePart is one file in a multipart body.
type FilePart struct {
	Field string
	Name  string
	Data  []byte
}

// Request is a fluent HTTP request builder. The zero retry policy is a
// single attempt.
type Request struct {
	method    string
	url       string
	headers   map[string]string
	body      interface{}
	fields    map[string]string
	files     []*FilePart
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
	client    *gohttp.Client
}

func Get(url string) *Request    { return NewRequest(gohttp.MethodGet, url) }
func Post(url string) *Request   { return NewRequest(gohttp.MethodPost, url) }
func Put(url string) *Request    { return NewRequest(gohttp.MethodPut, url) }
func Delete(url string) *Request { return NewRequest(gohttp.MethodDelete, url) }

// NewRequest starts a request with any method.
func NewRequest(method, url string) *Request {
	return &Request{
		method:    method,
		url:       url,
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   30 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
		client:    DefaultClient,
	}
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets Authorization: Bearer <token>. An empty token is a no-op.
func (r *Request) Bearer(token string) *Request {
	if token == "" {
		return r
	}
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets a JSON body. Strings and byte slices are sent raw.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Multipart sets a multipart/form-data body from fields and files. Nil file
// parts are skipped.
func (r *Request) Multipart(fields map[string]string, files ...*FilePart) *Request {
	r.fields = fields
	for _, f := range files {
		if f != nil {
			r.files = append(r.files, f)
		}
	}
	if r.fields == nil {
		r.fields = map[string]string{}
	}
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry sets the total number of attempts and the initial backoff, which
// doubles after each failure. Only transport errors are retried.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.retries, r.retryWait = n, wait
	return r
}

func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Using sends through c instead of DefaultClient.
func (r *Request) Using(c *gohttp.Client) *Request {
	if c != nil {
		r.client = c
	}
	return r
}

// Send executes the request. Non-2xx answers are returned, not errors.
func (r *Request) Send() (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt < r.retries {
			backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
			logger.Warn("http: request failed, retrying",
				"url", r.url, "attempt", attempt, "backoff", backoff, "error", err)
			select {
			case <-time.After(backoff):
			case <-r.ctx.Done():
				return nil, r.ctx.Err()
			}
		}
	}

	if r.retries == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("http: all %d attempts failed for %s %s: %w", r.retries, r.method, r.url, lastErr)
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send %s %s: %w", r.method, r.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

// buildBody is called once per attempt so retried requests resend the body.
func (r *Request) buildBody() (io.Reader, string, error) {
	if r.fields != nil {
		return r.multipartBody()
	}
	switch v := r.body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

func (r *Request) multipartBody() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range r.fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("http: multipart field %s: %w", k, err)
		}
	}
	for _, f := range r.files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("http: multipart file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("http: multipart file %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}
