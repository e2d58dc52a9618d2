package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/smalltown/internal/platform/otel"
)

func setTraceEnv(t *testing.T, endpoint, enabled string) {
	t.Helper()
	t.Setenv("SMALLTOWN_OTEL_ENDPOINT", endpoint)
	t.Setenv("SMALLTOWN_OTEL_ENABLED", enabled)
}

func TestSetupNoopWithoutEndpoint(t *testing.T) {
	setTraceEnv(t, "", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupNoopWhenDisabled(t *testing.T) {
	setTraceEnv(t, "http://localhost:4318", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// TEST-NET address, so nothing actually exports.
	setTraceEnv(t, "http://192.0.2.1:4318", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	// Shutdown flushes cleanly even though the endpoint is unreachable.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupNoopShutdownIgnoresCancelledContext(t *testing.T) {
	setTraceEnv(t, "", "")

	shutdown, err := otel.Setup(context.Background(), "noop-test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}
