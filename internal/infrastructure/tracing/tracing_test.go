package tracing

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "test"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
