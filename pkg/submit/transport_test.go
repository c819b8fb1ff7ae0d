package submit_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/goliatone/go-contactform/pkg/submit"
)

func TestNewHTTPClientEnablesHTTP2(t *testing.T) {
	client := submit.NewHTTPClient(nil)
	if client.Timeout != submit.DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", client.Timeout, submit.DefaultTimeout)
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport = %T, want *http.Transport", client.Transport)
	}
	if _, ok := transport.TLSNextProto["h2"]; !ok {
		t.Fatalf("expected h2 to be registered")
	}
}

func TestEnableHTTP2LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	transport := submit.NewTransport(logger)
	if buf.Len() != 0 {
		t.Fatalf("fresh transport should upgrade quietly, logged %q", buf.String())
	}
	if submit.EnableHTTP2(transport, logger) {
		t.Fatalf("second upgrade should fail")
	}
	if !strings.Contains(buf.String(), "http2 not enabled") {
		t.Fatalf("expected a debug record, got %q", buf.String())
	}
}
