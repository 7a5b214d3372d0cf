package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/comedor/admin-api/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.User{
				ID:           "u1",
				Username:     "alice",
				PasswordHash: "$2a$10$hash",
				Role:         &domain.Role{ID: "r1", Name: domain.RoleAdmin},
				Profile:      domain.StandardProfile{},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"bad"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
