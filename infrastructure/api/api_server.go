// Package api provides the HTTP layer for the kommit service.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apimiddleware "github.com/helixml/kommit/infrastructure/api/middleware"
	v1 "github.com/helixml/kommit/infrastructure/api/v1"
	"github.com/helixml/kommit/infrastructure/api/v1/dto"
	mcpinternal "github.com/helixml/kommit/internal/mcp"
)

// DefaultRequestTimeout bounds a generation request when no timeout is set.
const DefaultRequestTimeout = 120 * time.Second

// APIServer provides an HTTP API backed by a commit message generator.
type APIServer struct {
	generator      v1.Generator
	apiKeys        []string
	corsOrigins    []string
	requestTimeout time.Duration
	version        string
	router         chi.Router
	mounted        bool
	logger         *slog.Logger
}

// Option configures an APIServer.
type Option func(*APIServer)

// WithAPIKeys enables X-API-KEY protection of the generation endpoints.
func WithAPIKeys(keys []string) Option {
	return func(a *APIServer) { a.apiKeys = keys }
}

// WithCORSAllowedOrigins sets the origins allowed to call the API from a browser.
func WithCORSAllowedOrigins(origins []string) Option {
	return func(a *APIServer) { a.corsOrigins = origins }
}

// WithRequestTimeout sets the deadline applied to generation requests.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *APIServer) {
		if d > 0 {
			a.requestTimeout = d
		}
	}
}

// WithVersion sets the version reported by / and the MCP server info.
func WithVersion(version string) Option {
	return func(a *APIServer) { a.version = version }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *APIServer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAPIServer creates a new APIServer wired to the given generator.
// POST endpoints require a valid key when API keys are configured; health,
// info and MCP remain open.
func NewAPIServer(generator v1.Generator, opts ...Option) *APIServer {
	a := &APIServer{
		generator:      generator,
		corsOrigins:    []string{"*"},
		requestTimeout: DefaultRequestTimeout,
		version:        "dev",
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, Handler creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	return a.router
}

// MountRoutes wires up middleware and all routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.mounted {
		return
	}
	a.Router()
	a.mountRoutes(a.router)
	a.mounted = true
}

func (a *APIServer) mountRoutes(router chi.Router) {
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(a.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-KEY", apimiddleware.CorrelationIDHeader},
		ExposedHeaders: []string{apimiddleware.CorrelationIDHeader},
		MaxAge:         300,
	}))

	router.Get("/", a.info)
	router.Get("/health", health)
	router.Get("/healthz", health)

	generateRouter := v1.NewGenerateRouter(a.generator, a.logger)
	auth := apimiddleware.NewAuthConfigWithKeys(a.apiKeys).WithLogger(a.logger)

	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(a.requestTimeout))
		r.Use(apimiddleware.WriteProtect(auth))
		r.Mount("/api/v1/generate", generateRouter.Routes())
		// Unversioned path used by the web front-end.
		r.Mount("/api/generate", generateRouter.Routes())
	})

	// MCP endpoint, no timeout middleware. MCP streams responses and keeps
	// session state in headers, which chi's Timeout wrapper breaks.
	mcpSrv := mcpinternal.NewServer(a.generator, a.version, a.logger)
	router.Mount("/mcp", mcpSrv.HTTPHandler())
}

func (a *APIServer) info(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, dto.InfoResponse{Name: "kommit", Version: a.version})
}

func health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

// NewHTTPServer returns a Server on addr serving the API routes, with a
// write timeout that outlasts the request timeout.
func (a *APIServer) NewHTTPServer(addr string) Server {
	server := NewServer(addr, a.logger, WithWriteTimeout(a.requestTimeout+10*time.Second))
	server.Router().Mount("/", a.Handler())
	return server
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	a.MountRoutes()
	return a.router
}
