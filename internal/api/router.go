package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/usermanagement/accounts/internal/api/docs"
	"github.com/usermanagement/accounts/internal/api/handler"
	"github.com/usermanagement/accounts/internal/api/middleware"
	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
	"github.com/usermanagement/accounts/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs to serve the API.
type Dependencies struct {
	Users  ports.UserService
	Roles  ports.RoleService
	Auth   ports.AuthService
	Cookie handler.CookieConfig
	// Readiness lists the dependencies probed by GET /health/ready.
	Readiness map[string]handlers.Check
	Logger    zerolog.Logger
	// Registry receives the HTTP request metrics. Nil uses the Prometheus
	// default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users, deps.Roles, deps.Cookie)
	userHandler := handler.NewUserHandler(deps.Users, deps.Roles)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	session := middleware.Session(deps.Auth, deps.Cookie.Name)

	// --- Public routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- Session routes ---
	e.GET("/me", userHandler.Me, session)
	e.GET("/roles", roleHandler.List, session)
	e.GET("/users", userHandler.List, session)
	e.POST("/users", userHandler.Create, session, middleware.RequireAuthority(domain.AuthorityAdmin))
	e.GET("/users/:id", userHandler.Get, session)
	e.PUT("/users/:id", userHandler.Update, session)
	e.POST("/users/:id/password", userHandler.ChangePassword, session)
	e.DELETE("/users/:id", userHandler.Delete, session, middleware.RequireAuthority(domain.AuthorityAdmin))

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
