package app

import (
	"fmt"

	subscriptionHTTP "github.com/allisson/gateway/internal/subscription/http"
	subscriptionRepository "github.com/allisson/gateway/internal/subscription/repository"
	subscriptionService "github.com/allisson/gateway/internal/subscription/service"
	subscriptionUseCase "github.com/allisson/gateway/internal/subscription/usecase"
)

// PaymentProcessor returns the payment processor.
func (c *Container) PaymentProcessor() subscriptionService.PaymentProcessor {
	c.paymentsInit.Do(func() {
		c.payments = subscriptionService.NewDevPaymentProcessor(c.Logger())
	})
	return c.payments
}

// SubscriptionRepository returns the subscription repository based on database driver.
func (c *Container) SubscriptionRepository() (subscriptionUseCase.SubscriptionRepository, error) {
	var err error
	c.subscriptionRepoInit.Do(func() {
		c.subscriptionRepo, err = c.initSubscriptionRepository()
		if err != nil {
			c.initErrors["subscriptionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionRepo"]; exists {
		return nil, storedErr
	}
	return c.subscriptionRepo, nil
}

// SubscriptionUseCase returns the subscription use case.
func (c *Container) SubscriptionUseCase() (subscriptionUseCase.SubscriptionUseCase, error) {
	var err error
	c.subscriptionUCInit.Do(func() {
		c.subscriptionUC, err = c.initSubscriptionUseCase()
		if err != nil {
			c.initErrors["subscriptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.subscriptionUC, nil
}

// SubscriptionHandler returns the HTTP handler for subscription management.
func (c *Container) SubscriptionHandler() (*subscriptionHTTP.SubscriptionHandler, error) {
	var err error
	c.subscriptionHandlerInit.Do(func() {
		c.subscriptionHandler, err = c.initSubscriptionHandler()
		if err != nil {
			c.initErrors["subscriptionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionHandler"]; exists {
		return nil, storedErr
	}
	return c.subscriptionHandler, nil
}

// initSubscriptionRepository creates the subscription repository instance.
func (c *Container) initSubscriptionRepository() (subscriptionUseCase.SubscriptionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for subscription repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return subscriptionRepository.NewMySQLSubscriptionRepository(db), nil
	case "postgres":
		return subscriptionRepository.NewPostgreSQLSubscriptionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSubscriptionUseCase creates the subscription use case with all its dependencies.
func (c *Container) initSubscriptionUseCase() (subscriptionUseCase.SubscriptionUseCase, error) {
	subscriptionRepo, err := c.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription repository for subscription use case: %w", err)
	}

	packageRepo, err := c.PackageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get package repository for subscription use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for subscription use case: %w", err)
	}

	useCase := subscriptionUseCase.NewSubscriptionUseCase(subscriptionRepo, packageRepo, c.PaymentProcessor())

	return subscriptionUseCase.NewSubscriptionUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initSubscriptionHandler creates the subscription HTTP handler with all its dependencies.
func (c *Container) initSubscriptionHandler() (*subscriptionHTTP.SubscriptionHandler, error) {
	useCase, err := c.SubscriptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription use case for subscription handler: %w", err)
	}

	return subscriptionHTTP.NewSubscriptionHandler(useCase, c.Logger()), nil
}
