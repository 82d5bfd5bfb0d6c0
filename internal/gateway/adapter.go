// Package gateway runs cloud-function style events through the HTTP router.
//
// An event names the action as a path parameter rather than a URL; the
// adapter rebuilds an *http.Request for "/<action>", serves it, and folds the
// recorded response back into the event response shape.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

type Event struct {
	HTTPMethod      string            `json:"httpMethod"`
	Headers         map[string]string `json:"headers"`
	PathParams      map[string]string `json:"pathParams"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

type Adapter struct {
	handler http.Handler
}

func NewAdapter(handler http.Handler) *Adapter {
	return &Adapter{handler: handler}
}

func (a *Adapter) Handle(ctx context.Context, event Event) (*Response, error) {
	req, err := newRequest(ctx, event)
	if err != nil {
		return nil, err
	}

	rec := newRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec.response(), nil
}

func newRequest(ctx context.Context, event Event) (*http.Request, error) {
	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("decode event body: %w", err)
		}
		body = decoded
	}

	path := "/" + strings.TrimPrefix(event.PathParams["action"], "/")
	req, err := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.RemoteAddr = "0.0.0.0:0"

	// Set canonicalizes names, so "x-session-token" and "X-Session-Token"
	// land on the same key.
	for name, value := range event.Headers {
		req.Header.Set(name, value)
	}
	return req, nil
}

// recorder is a minimal in-memory http.ResponseWriter.
type recorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *recorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(p)
}

func (r *recorder) response() *Response {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}

	headers := make(map[string]string, len(r.header))
	for name, values := range r.header {
		headers[name] = strings.Join(values, ", ")
	}

	return &Response{
		StatusCode:      status,
		Headers:         headers,
		Body:            strings.TrimSuffix(r.body.String(), "\n"),
		IsBase64Encoded: false,
	}
}
