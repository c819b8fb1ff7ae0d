package submit

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// DefaultTimeout bounds a single submission round trip.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns an HTTP client whose transport negotiates HTTP/2 with
// endpoints that support it and falls back to HTTP/1.1 otherwise.
func NewHTTPClient(logger *slog.Logger) *http.Client {
	return &http.Client{
		Transport: NewTransport(logger),
		Timeout:   DefaultTimeout,
	}
}

// NewTransport builds a fresh transport with the same limits as
// http.DefaultTransport and HTTP/2 enabled.
func NewTransport(logger *slog.Logger) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	EnableHTTP2(transport, logger)
	return transport
}

// EnableHTTP2 registers HTTP/2 on transport. It reports false, and logs at
// debug level, when the transport cannot be upgraded; requests then use
// HTTP/1.1.
func EnableHTTP2(transport *http.Transport, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Debug("http2 not enabled, using http/1.1", "error", err)
		return false
	}
	return true
}
