package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/api/middleware"
	"github.com/comedor/admin-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth middleware, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	// Validation and unknown-role messages carry the offending field or name.
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, clientMessage(err)
	case errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrRoleMissing):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrBreakfastNotFound),
		errors.Is(err, domain.ErrRateNotFound),
		errors.Is(err, domain.ErrCenterNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, domain.ErrRoleInUse):
		return http.StatusConflict, rootMessage(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("actor", middleware.Actor(c)).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// sentinels in the order rootMessage and clientMessage look for them.
var sentinels = []error{
	domain.ErrValidation,
	domain.ErrUnknownRole,
	domain.ErrDuplicateUsername,
	domain.ErrRoleMissing,
	domain.ErrRoleInUse,
	domain.ErrUserNotFound,
	domain.ErrRoleNotFound,
	domain.ErrBreakfastNotFound,
	domain.ErrRateNotFound,
	domain.ErrCenterNotFound,
}

// rootMessage returns the message of the first matching sentinel, dropping
// any operation prefixes added while the error travelled up.
func rootMessage(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}

// clientMessage keeps the detail that follows the sentinel, e.g.
// "validation failed: email must be a valid email".
func clientMessage(err error) string {
	full := err.Error()
	for _, s := range sentinels {
		if !errors.Is(err, s) {
			continue
		}
		if i := strings.Index(full, s.Error()); i >= 0 {
			return full[i:]
		}
		return s.Error()
	}
	return full
}
