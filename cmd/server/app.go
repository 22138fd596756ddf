package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/diewo77/go-identity/internal/policy"
	"github.com/diewo77/go-identity/internal/telemetry"
)

// AppOptions tune the HTTP surface.
type AppOptions struct {
	AllowedOrigins []string
	// RateLimit is requests per minute per client IP; zero disables limiting.
	RateLimit      int
	RequestTimeout time.Duration
	// ServiceName enables otelhttp spans when set.
	ServiceName string
}

// App is the main application handler that sets up all routes.
type App struct {
	router    chi.Router
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, opts AppOptions) *App {
	app := &App{router: chi.NewRouter(), routerCfg: routerCfg}
	app.setupMiddleware(opts)
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) setupMiddleware(opts AppOptions) {
	r := a.router
	if opts.ServiceName != "" {
		r.Use(telemetry.Tracing(opts.ServiceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(telemetry.RequestLogger)
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	r := a.router
	cfg := a.routerCfg
	ah, uh, rh, ph := cfg.AuthHandler, cfg.UserHandler, cfg.RoleHandler, cfg.ProfileHandler

	// Operational endpoints
	r.Get("/healthz", cfg.HealthHandler.Healthz)
	r.Get("/readyz", cfg.HealthHandler.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public routes
	r.Post("/register", ah.Register)
	r.Post("/login", ah.Login)
	r.Get("/user/details", uh.Details)
	r.Post("/user/{id}/toggle-status", uh.ToggleStatus)

	// Routes that need a verified caller
	r.Group(func(r chi.Router) {
		r.Use(cfg.Authenticator.RequireAuth)

		r.Get("/me", ah.Me)
		r.Get("/users", uh.List)
		r.Patch("/user/roles", uh.SetRoles)

		r.Get("/roles", rh.List)
		r.Post("/roles", rh.Create)
		r.Get("/roles/{id}", rh.Get)
		r.Post("/roles/{id}/users", rh.SetUsers)

		r.Get("/profiles", ph.List)
		r.Get("/profiles/{id}", ph.Get)
		r.Patch("/profiles/{id}", ph.Update)
	})
}
