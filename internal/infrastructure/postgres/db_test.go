package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolInvalidURL(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPool(ctx, "not-a-url", 10, 2); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewPool(ctx, "postgres://invalid:5432/db?connect_timeout=1", 10, 2); err == nil {
		t.Fatalf("expected ping failure for unreachable host")
	}
}
