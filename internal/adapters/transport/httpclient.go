package transport

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// HTTPOptions configures NewHTTPClient
type HTTPOptions struct {
	DialTimeout           time.Duration
	ResponseHeaderTimeout time.Duration
	TLSConfig             *tls.Config
}

// NewHTTPClient builds the client shared by the REST API and the SSE
// stream. It negotiates HTTP/2 over TLS. There is no overall request
// timeout since event streams stay open indefinitely.
func NewHTTPClient(opts HTTPOptions) (*http.Client, error) {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	headerTimeout := opts.ResponseHeaderTimeout
	if headerTimeout <= 0 {
		headerTimeout = dialTimeout
	}

	tlsConfig := opts.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: headerTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
	if err := http2.ConfigureTransport(t); err != nil {
		return nil, fmt.Errorf("failed to configure http2: %w", err)
	}

	return &http.Client{Transport: t}, nil
}
