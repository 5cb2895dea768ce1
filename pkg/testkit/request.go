package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the decoded response body. Data is left raw for the caller to
// decode into its own type.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Response is a recorded response with its decoded envelope.
type Response struct {
	Code     int
	Header   http.Header
	Body     []byte
	Envelope Envelope
}

// Decode unmarshals the envelope data into dest.
func (r *Response) Decode(t testing.TB, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Envelope.Data, dest), "testkit: decode data: %s", r.Body)
}

// Request describes one call against a handler.
type Request struct {
	Method      string
	Path        string
	Token       string
	Body        interface{} // marshalled as JSON unless it is an io.Reader
	ContentType string
}

// Do runs req against h through httptest.
func Do(t testing.TB, h http.Handler, req Request) *Response {
	t.Helper()

	var body io.Reader
	contentType := req.ContentType
	switch b := req.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	case string:
		body = bytes.NewBufferString(b)
		if contentType == "" {
			contentType = "application/json"
		}
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "testkit: marshal body")
		body = bytes.NewReader(raw)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	res := &Response{Code: rec.Code, Header: rec.Header(), Body: rec.Body.Bytes()}
	if len(res.Body) > 0 {
		_ = json.Unmarshal(res.Body, &res.Envelope)
	}
	return res
}

// AssertStatus checks the status code and, when message is set, the
// envelope message.
func AssertStatus(t testing.TB, res *Response, code int, message ...string) bool {
	t.Helper()
	ok := assert.Equal(t, code, res.Code, "body: %s", res.Body)
	if len(message) > 0 {
		ok = assert.Equal(t, message[0], res.Envelope.Message, "body: %s", res.Body) && ok
	}
	return ok
}

// AssertJSONEqual compares two JSON documents ignoring key order and
// whitespace.
func AssertJSONEqual(t testing.TB, expected, actual []byte) bool {
	t.Helper()
	var exp, act interface{}
	require.NoError(t, json.Unmarshal(expected, &exp), "expected is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &act), "actual is not valid JSON\nbody: %s", actual) {
		return false
	}
	return assert.Equal(t, exp, act)
}
