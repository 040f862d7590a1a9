// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// defaultTimeout bounds every external call; no pipeline stage issues a
// request through a client without a timeout.
const defaultTimeout = 30 * time.Second

// NewClient builds the HTTP client used by the arXiv and AI backends. The
// configured User-Agent is applied to requests that do not set their own.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.UserAgent != "" {
		transport = &userAgentTransport{base: http.DefaultTransport, userAgent: cfg.UserAgent}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// userAgentTransport sets the User-Agent header on outgoing requests that
// lack one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		clone := req.Clone(req.Context())
		clone.Header.Set("User-Agent", t.userAgent)
		req = clone
	}
	return t.base.RoundTrip(req)
}
