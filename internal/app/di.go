// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	apikeyHTTP "github.com/allisson/gateway/internal/apikey/http"
	apikeyService "github.com/allisson/gateway/internal/apikey/service"
	apikeyUseCase "github.com/allisson/gateway/internal/apikey/usecase"
	catalogHTTP "github.com/allisson/gateway/internal/catalog/http"
	catalogUseCase "github.com/allisson/gateway/internal/catalog/usecase"
	"github.com/allisson/gateway/internal/config"
	"github.com/allisson/gateway/internal/database"
	gatewayHTTP "github.com/allisson/gateway/internal/gateway/http"
	gatewayUseCase "github.com/allisson/gateway/internal/gateway/usecase"
	"github.com/allisson/gateway/internal/http"
	"github.com/allisson/gateway/internal/metrics"
	subscriptionHTTP "github.com/allisson/gateway/internal/subscription/http"
	subscriptionService "github.com/allisson/gateway/internal/subscription/service"
	subscriptionUseCase "github.com/allisson/gateway/internal/subscription/usecase"
	usageHTTP "github.com/allisson/gateway/internal/usage/http"
	usageUseCase "github.com/allisson/gateway/internal/usage/usecase"
	userHTTP "github.com/allisson/gateway/internal/user/http"
	userService "github.com/allisson/gateway/internal/user/service"
	userUseCase "github.com/allisson/gateway/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	gatewayMetrics  metrics.GatewayMetrics

	// Services
	tokenService userService.TokenService
	codeService  userService.CodeService
	codeSender   userService.VerificationSender
	keyService   apikeyService.KeyService
	payments     subscriptionService.PaymentProcessor

	// Repositories
	userRepo         userUseCase.UserRepository
	sessionRepo      userUseCase.SessionRepository
	codeRepo         userUseCase.VerificationCodeRepository
	apiRepo          catalogUseCase.APIRepository
	packageRepo      catalogUseCase.PackageRepository
	subscriptionRepo subscriptionUseCase.SubscriptionRepository
	apiKeyRepo       apikeyUseCase.APIKeyRepository
	usageEventRepo   usageUseCase.UsageEventRepository
	quotaRepo        usageUseCase.QuotaCounterRepository

	// Use cases
	userUC         userUseCase.UserUseCase
	catalogUC      catalogUseCase.CatalogUseCase
	subscriptionUC subscriptionUseCase.SubscriptionUseCase
	apiKeyUC       apikeyUseCase.APIKeyUseCase
	usageUC        usageUseCase.UsageUseCase
	usageRecorder  usageUseCase.UsageRecorder
	gatewayUC      gatewayUseCase.GatewayUseCase

	// Handlers
	userHandler         *userHTTP.UserHandler
	catalogHandler      *catalogHTTP.CatalogHandler
	subscriptionHandler *subscriptionHTTP.SubscriptionHandler
	apiKeyHandler       *apikeyHTTP.APIKeyHandler
	usageHandler        *usageHTTP.UsageHandler
	gatewayHandler      *gatewayHTTP.GatewayHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	gatewayMetricsInit      sync.Once
	tokenServiceInit        sync.Once
	codeServiceInit         sync.Once
	codeSenderInit          sync.Once
	keyServiceInit          sync.Once
	paymentsInit            sync.Once
	userRepoInit            sync.Once
	sessionRepoInit         sync.Once
	codeRepoInit            sync.Once
	apiRepoInit             sync.Once
	packageRepoInit         sync.Once
	subscriptionRepoInit    sync.Once
	apiKeyRepoInit          sync.Once
	usageEventRepoInit      sync.Once
	quotaRepoInit           sync.Once
	userUCInit              sync.Once
	catalogUCInit           sync.Once
	subscriptionUCInit      sync.Once
	apiKeyUCInit            sync.Once
	usageUCInit             sync.Once
	usageRecorderInit       sync.Once
	gatewayUCInit           sync.Once
	userHandlerInit         sync.Once
	catalogHandlerInit      sync.Once
	subscriptionHandlerInit sync.Once
	apiKeyHandlerInit       sync.Once
	usageHandlerInit        sync.Once
	gatewayHandlerInit      sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the Prometheus metrics provider.
// Returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business operation metrics recorder.
// Returns a no-op recorder when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// GatewayMetrics returns the admission pipeline metrics recorder.
// Returns a no-op recorder when metrics are disabled.
func (c *Container) GatewayMetrics() (metrics.GatewayMetrics, error) {
	var err error
	c.gatewayMetricsInit.Do(func() {
		c.gatewayMetrics, err = c.initGatewayMetrics()
		if err != nil {
			c.initErrors["gatewayMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayMetrics"]; exists {
		return nil, storedErr
	}
	return c.gatewayMetrics, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the Prometheus metrics provider when enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initGatewayMetrics creates the admission pipeline metrics recorder.
func (c *Container) initGatewayMetrics() (metrics.GatewayMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for gateway metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpGatewayMetrics(), nil
	}

	gatewayMetrics, err := metrics.NewGatewayMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway metrics: %w", err)
	}
	return gatewayMetrics, nil
}

// initHTTPServer creates the API server with all module handlers wired.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	catalogHandler, err := c.CatalogHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog handler for http server: %w", err)
	}

	subscriptionHandler, err := c.SubscriptionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription handler for http server: %w", err)
	}

	apiKeyHandler, err := c.APIKeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key handler for http server: %w", err)
	}

	usageHandler, err := c.UsageHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage handler for http server: %w", err)
	}

	gatewayHandler, err := c.GatewayHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway handler for http server: %w", err)
	}

	userUC, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	authMiddleware := userHTTP.AuthenticationMiddleware(userUC, c.TokenService(), logger)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	var metricsMiddleware gin.HandlerFunc
	if provider != nil {
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	handlers := &http.Handlers{
		User:         userHandler,
		Catalog:      catalogHandler,
		Subscription: subscriptionHandler,
		APIKey:       apiKeyHandler,
		Usage:        usageHandler,
		Gateway:      gatewayHandler,
	}

	return http.NewServer(c.config, logger, handlers, authMiddleware, metricsMiddleware), nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
