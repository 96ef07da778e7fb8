// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

// Package probe issues a single HTTP GET request and captures the response.
package probe

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/atomic"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds the whole exchange: connection, headers
	// and body.
	DefaultTimeout = 5 * time.Second

	// DefaultBodyLimit is the number of body bytes that are captured.
	DefaultBodyLimit = 64 * 1024
)

// Header is a custom HTTP header to set in the request.  HTTP allows
// repeated headers.
type Header struct {
	// Name of the HTTP header.
	Name string `yaml:"name" validate:"required"`

	// Value of the HTTP header.
	Value string `yaml:"value"`
}

// Options configures a Prober.  Zero values are replaced by defaults.
type Options struct {
	Timeout   time.Duration
	BodyLimit int64
	Headers   []Header
}

// Response is the captured result of a probe.  It is never mutated
// after Fetch returns.
type Response struct {
	// URL is the URL that was probed.
	URL string

	// StatusCode is the HTTP status code.  It is 0 when TransportErr
	// is set.
	StatusCode int

	// Body is the response body, up to the body limit.
	Body string

	// Truncated is true when the body was longer than the body limit.
	Truncated bool

	// TransportErr is set when no complete response could be received.
	// It is a *TransportFailure.
	TransportErr error

	// Elapsed is the duration of the exchange.
	Elapsed time.Duration
}

// HasStatus tells whether a status code was received.
func (resp *Response) HasStatus() bool {
	return resp.TransportErr == nil && resp.StatusCode != 0
}

// TransportFailure describes a network-level failure: connection refused,
// DNS failure, timeout, or a body that could not be read.
type TransportFailure struct {
	URL string
	Op  string
	Err error
}

func (f *TransportFailure) Error() string {
	msg := fmt.Sprintf("GET %s: %s: %v", f.URL, f.Op, f.Err)
	if f.Timeout() {
		msg += " (timeout)"
	}
	return msg
}

func (f *TransportFailure) Unwrap() error {
	return f.Err
}

// Timeout tells whether the failure is due to the probe timeout.
func (f *TransportFailure) Timeout() bool {
	if errors.Is(f.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(f.Err, &netErr) && netErr.Timeout()
}

// Prober issues probes.  A Prober can be used concurrently: every call to
// Fetch uses its own transport, and nothing is shared between calls but
// the accounting of open resources.
type Prober struct {
	opts   Options
	bodies *atomic.Int64
	conns  *atomic.Int64
}

// New creates a new Prober.
func New(opts Options) *Prober {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BodyLimit == 0 {
		opts.BodyLimit = DefaultBodyLimit
	}
	return &Prober{
		opts:   opts,
		bodies: atomic.NewInt64(0),
		conns:  atomic.NewInt64(0),
	}
}

// OpenBodies gives the number of response bodies that have not yet been
// closed.  It is zero whenever no Fetch is in flight.
func (p *Prober) OpenBodies() int64 {
	return p.bodies.Load()
}

// OpenConns gives the number of network connections that have not yet
// been closed.  Connections are closed asynchronously by the HTTP
// transport shortly after Fetch returns.
func (p *Prober) OpenConns() int64 {
	return p.conns.Load()
}

// Fetch sends a single GET request to the URL and captures the response.
// Network failures are not returned as errors, but captured in
// Response.TransportErr.  An error is only returned for invalid input.
func (p *Prober) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if p.opts.Timeout < 0 {
		return nil, fmt.Errorf("probe: timeout must be positive, got %s", p.opts.Timeout)
	}
	if p.opts.BodyLimit < 0 {
		return nil, fmt.Errorf("probe: body limit must be positive, got %d", p.opts.BodyLimit)
	}
	if rawURL == "" {
		return nil, errors.New("probe: URL is missing")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("probe: malformed URL '%s': %v", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("probe: malformed URL '%s': expected http(s)://host[:port]/...", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("probe: %v", err)
	}
	for _, h := range p.opts.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	client := &http.Client{Transport: p.newTransport()}
	defer client.CloseIdleConnections()

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return p.failure(rawURL, "request", err, start), nil
	}
	body := &trackedBody{ReadCloser: resp.Body, open: p.bodies}
	p.bodies.Inc()
	defer body.Close()

	b, err := io.ReadAll(io.LimitReader(body, p.opts.BodyLimit+1))
	if err != nil {
		return p.failure(rawURL, "reading body", err, start), nil
	}
	truncated := int64(len(b)) > p.opts.BodyLimit
	if truncated {
		b = b[:p.opts.BodyLimit]
	}

	return &Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Truncated:  truncated,
		Elapsed:    time.Since(start),
	}, nil
}

func (p *Prober) failure(rawURL, op string, err error, start time.Time) *Response {
	return &Response{
		URL:          rawURL,
		TransportErr: &TransportFailure{URL: rawURL, Op: op, Err: err},
		Elapsed:      time.Since(start),
	}
}
