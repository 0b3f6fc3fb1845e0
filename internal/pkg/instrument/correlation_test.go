package instrument

import (
	"context"
	"testing"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := GetCorrelationID(ctx); got != "" {
		t.Fatalf("expected empty id on fresh context, got %q", got)
	}

	ctx = SetCorrelationID(ctx, "req-123")
	if got := GetCorrelationID(ctx); got != "req-123" {
		t.Fatalf("expected req-123, got %q", got)
	}

	// overwriting replaces the previous value
	ctx = SetCorrelationID(ctx, "req-456")
	if got := GetCorrelationID(ctx); got != "req-456" {
		t.Fatalf("expected req-456, got %q", got)
	}
}
