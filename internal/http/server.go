// Package http assembles the API server: routing, middleware, and server
// lifecycle for the account, catalog, subscription, key, usage, and
// forwarding endpoints.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apikeyHTTP "github.com/allisson/gateway/internal/apikey/http"
	catalogHTTP "github.com/allisson/gateway/internal/catalog/http"
	"github.com/allisson/gateway/internal/config"
	gatewayHTTP "github.com/allisson/gateway/internal/gateway/http"
	subscriptionHTTP "github.com/allisson/gateway/internal/subscription/http"
	usageHTTP "github.com/allisson/gateway/internal/usage/http"
	userHTTP "github.com/allisson/gateway/internal/user/http"
)

// Handlers bundles the module handlers the API server routes to.
type Handlers struct {
	User         *userHTTP.UserHandler
	Catalog      *catalogHTTP.CatalogHandler
	Subscription *subscriptionHTTP.SubscriptionHandler
	APIKey       *apikeyHTTP.APIKeyHandler
	Usage        *usageHTTP.UsageHandler
	Gateway      *gatewayHTTP.GatewayHandler
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
	ready  atomic.Bool
}

// NewServer creates the API server and wires all routes.
//
// Route groups:
//   - Public: registration, login, and catalog browsing, behind the
//     per-IP rate limiter when enabled.
//   - Authenticated: account, subscription, key, and usage endpoints,
//     behind the session token middleware.
//   - Gateway: the forwarding endpoint, authenticated by API key inside
//     the dispatch pipeline itself.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	handlers *Handlers,
	authMiddleware gin.HandlerFunc,
	metricsMiddleware gin.HandlerFunc,
) *Server {
	s := &Server{
		logger: logger,
	}
	s.ready.Store(true)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsMiddleware != nil {
		router.Use(metricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler(s.ready.Load))

	public := router.Group("/")
	if cfg.PublicRateLimitEnabled {
		public.Use(IPRateLimitMiddleware(
			cfg.PublicRateLimitRequestsPerSec,
			cfg.PublicRateLimitBurst,
			logger,
		))
	}
	public.POST("/v1/users", handlers.User.RegisterHandler)
	public.POST("/v1/auth/code", handlers.User.RequestCodeHandler)
	public.POST("/v1/auth/login", handlers.User.LoginHandler)
	public.GET("/v1/apis", handlers.Catalog.ListAPIsHandler)
	public.GET("/v1/apis/:id", handlers.Catalog.GetAPIHandler)
	public.GET("/v1/packages", handlers.Catalog.ListPackagesHandler)
	public.GET("/v1/packages/:id", handlers.Catalog.GetPackageHandler)

	authenticated := router.Group("/")
	authenticated.Use(authMiddleware)
	authenticated.POST("/v1/auth/logout", handlers.User.LogoutHandler)
	authenticated.GET("/v1/me", handlers.User.MeHandler)
	authenticated.POST("/v1/subscriptions", handlers.Subscription.SubscribeHandler)
	authenticated.GET("/v1/subscriptions", handlers.Subscription.ListHandler)
	authenticated.DELETE("/v1/subscriptions/:id", handlers.Subscription.CancelHandler)
	authenticated.POST("/v1/subscriptions/:id/change", handlers.Subscription.ChangePackageHandler)
	authenticated.POST("/v1/api-keys", handlers.APIKey.IssueHandler)
	authenticated.GET("/v1/api-keys", handlers.APIKey.ListHandler)
	authenticated.DELETE("/v1/api-keys/:id", handlers.APIKey.RevokeHandler)
	authenticated.GET("/v1/usage/stats", handlers.Usage.StatsHandler)

	router.Any("/gateway/*path", handlers.Gateway.ForwardHandler)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.ready.Store(false)
	return s.server.Shutdown(ctx)
}
