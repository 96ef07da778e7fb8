// SPDX-License-Identifier: MIT
// Copyright (c) 2019 Hadrien Chauvin

package probe

import (
	"context"
	"go.uber.org/atomic"
	"io"
	"net"
	"net/http"
	"sync"
)

// newTransport creates a transport owned by a single Fetch.  Keep-alive
// is disabled so that the connection is closed with the response body.
func (p *Prober) newTransport() *http.Transport {
	dialer := &net.Dialer{Timeout: p.opts.Timeout}
	return &http.Transport{
		DisableKeepAlives:     true,
		MaxIdleConns:          0,
		TLSHandshakeTimeout:   p.opts.Timeout,
		ResponseHeaderTimeout: p.opts.Timeout,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			p.conns.Inc()
			return &trackedConn{Conn: conn, open: p.conns}, nil
		},
	}
}

type trackedConn struct {
	net.Conn
	once sync.Once
	open *atomic.Int64
}

func (c *trackedConn) Close() error {
	c.once.Do(func() { c.open.Dec() })
	return c.Conn.Close()
}

type trackedBody struct {
	io.ReadCloser
	once sync.Once
	open *atomic.Int64
}

func (b *trackedBody) Close() error {
	b.once.Do(func() { b.open.Dec() })
	return b.ReadCloser.Close()
}
