package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// Auth validates the bearer JWT issued by POST /login and injects its claims
// into the echo context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			username, _ := claims["username"].(string)
			role, _ := claims["role"].(string)

			c.Set(CtxUserID, sub)
			c.Set(CtxUsername, username)
			c.Set(CtxRole, role)

			return next(c)
		}
	}
}

// Actor returns the authenticated username, or "anonymous" when the route is
// not guarded.
func Actor(c echo.Context) string {
	if u, _ := c.Get(CtxUsername).(string); u != "" {
		return u
	}
	return "anonymous"
}
