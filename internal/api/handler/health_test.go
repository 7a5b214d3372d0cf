package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		deps     map[string]Pinger
		wantCode int
	}{
		{"all up", map[string]Pinger{"mongodb": ok, "redis": ok}, http.StatusOK},
		{"redis disabled", map[string]Pinger{"mongodb": ok, "redis": nil}, http.StatusOK},
		{"mongo down", map[string]Pinger{"mongodb": down}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthHandler(tt.deps).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if _, listed := resp.Dependencies["redis"]; tt.name == "redis disabled" && listed {
				t.Fatalf("disabled dependency should not be reported")
			}
		})
	}
}
