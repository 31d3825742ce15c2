package clog

import (
	"log/slog"
	"net/http"
	"time"
)

// SlogTransport logs every outgoing request at debug level, and failed
// round trips at warn.
type SlogTransport struct {
	next http.RoundTripper
}

// NewSlogTransport wraps next, or http.DefaultTransport when next is nil.
func NewSlogTransport(next http.RoundTripper) *SlogTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &SlogTransport{next: next}
}

func (t *SlogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	resp, err := t.next.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"path", req.URL.RequestURI(),
		"duration", time.Since(startTime),
	}
	if err != nil {
		slog.WarnContext(req.Context(), "request failed", append(attrs, ErrorAttributeKey, err)...)
		return nil, err
	}
	slog.DebugContext(req.Context(), http.StatusText(resp.StatusCode), append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
