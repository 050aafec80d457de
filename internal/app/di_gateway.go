package app

import (
	"fmt"

	gatewayHTTP "github.com/allisson/gateway/internal/gateway/http"
	gatewayUseCase "github.com/allisson/gateway/internal/gateway/usecase"
)

// GatewayUseCase returns the admission and forwarding pipeline.
func (c *Container) GatewayUseCase() (gatewayUseCase.GatewayUseCase, error) {
	var err error
	c.gatewayUCInit.Do(func() {
		c.gatewayUC, err = c.initGatewayUseCase()
		if err != nil {
			c.initErrors["gatewayUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayUseCase"]; exists {
		return nil, storedErr
	}
	return c.gatewayUC, nil
}

// GatewayHandler returns the HTTP handler for the forwarding endpoint.
func (c *Container) GatewayHandler() (*gatewayHTTP.GatewayHandler, error) {
	var err error
	c.gatewayHandlerInit.Do(func() {
		c.gatewayHandler, err = c.initGatewayHandler()
		if err != nil {
			c.initErrors["gatewayHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayHandler"]; exists {
		return nil, storedErr
	}
	return c.gatewayHandler, nil
}

// initGatewayUseCase assembles the pipeline: resolver, entitlement checker,
// quota accountant, forwarder, and recorder.
func (c *Container) initGatewayUseCase() (gatewayUseCase.GatewayUseCase, error) {
	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for gateway use case: %w", err)
	}

	apiRepo, err := c.APIRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api repository for gateway use case: %w", err)
	}

	subscriptionRepo, err := c.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription repository for gateway use case: %w", err)
	}

	quotaRepo, err := c.QuotaCounterRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get quota counter repository for gateway use case: %w", err)
	}

	recorder, err := c.UsageRecorder()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage recorder for gateway use case: %w", err)
	}

	gatewayMetrics, err := c.GatewayMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway metrics for gateway use case: %w", err)
	}

	return gatewayUseCase.NewGatewayUseCase(
		gatewayUseCase.NewKeyResolver(apiKeyRepo),
		apiRepo,
		gatewayUseCase.NewEntitlementChecker(subscriptionRepo),
		gatewayUseCase.NewQuotaAccountant(quotaRepo),
		gatewayUseCase.NewHTTPForwarder(c.config.UpstreamTimeout),
		recorder,
		gatewayMetrics,
	), nil
}

// initGatewayHandler creates the gateway HTTP handler with all its dependencies.
func (c *Container) initGatewayHandler() (*gatewayHTTP.GatewayHandler, error) {
	useCase, err := c.GatewayUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway use case for gateway handler: %w", err)
	}

	return gatewayHTTP.NewGatewayHandler(useCase, c.Logger()), nil
}
