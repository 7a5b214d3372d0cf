package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/comedor/admin-api/internal/api/handler"
	"github.com/comedor/admin-api/internal/api/middleware"
	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// RouterConfig carries everything NewRouter wires into routes.
type RouterConfig struct {
	Users      ports.UserService
	Roles      ports.RoleService
	Breakfasts ports.BreakfastService
	References ports.ReferenceService
	Auth       ports.AuthService
	Health     *handler.HealthHandler

	Log            zerolog.Logger
	JWTSecret      string
	AuthRequired   bool
	RequestTimeout time.Duration
	ServiceName    string

	// Registry receives the HTTP metrics. Defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(cfg.Log))
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, cfg.ServiceName)
	}))
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "comedor",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if cfg.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	// --- Operational routes (never guarded) ---
	health := cfg.Health
	if health == nil {
		health = handler.NewHealthHandler(nil)
	}
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(cfg.Auth)
	e.POST("/login", authHandler.Login)

	// --- Management routes ---
	api := e.Group("")
	if cfg.AuthRequired {
		api.Use(middleware.Auth(cfg.JWTSecret), middleware.RBAC(domain.RoleAdmin))
	}

	users := handler.NewUserHandler(cfg.Users)
	api.POST("/users", users.Create)
	api.GET("/users/:page", users.List)
	api.GET("/users/role/:roleName", users.ByRole)
	api.GET("/users/id/:id", users.Get)
	api.PUT("/users/:id", users.Update)
	api.DELETE("/users/:id", users.Delete)
	api.GET("/partners", users.Partners)

	roles := handler.NewRoleHandler(cfg.Roles)
	api.GET("/roles", roles.List)
	api.DELETE("/roles/:name", roles.Delete)

	breakfasts := handler.NewBreakfastHandler(cfg.Breakfasts)
	api.POST("/breakfasts", breakfasts.Create)
	api.GET("/breakfasts", breakfasts.List)
	api.GET("/breakfasts/student/:studentId", breakfasts.ByStudent)
	api.GET("/breakfasts/:id", breakfasts.Get)
	api.PUT("/breakfasts/:id", breakfasts.Update)
	api.DELETE("/breakfasts/:id", breakfasts.Delete)

	refs := handler.NewReferenceHandler(cfg.References)
	api.GET("/rates", refs.ListRates)
	api.POST("/rates", refs.CreateRate)
	api.GET("/rates/:id", refs.GetRate)
	api.PUT("/rates/:id", refs.UpdateRate)
	api.DELETE("/rates/:id", refs.DeleteRate)
	api.GET("/centers", refs.ListCenters)
	api.POST("/centers", refs.CreateCenter)
	api.GET("/centers/:id", refs.GetCenter)
	api.PUT("/centers/:id", refs.UpdateCenter)
	api.DELETE("/centers/:id", refs.DeleteCenter)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("actor", middleware.Actor(c)).
				Msg("request")
			return nil
		},
	})
}
