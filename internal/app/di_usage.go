package app

import (
	"fmt"

	usageHTTP "github.com/allisson/gateway/internal/usage/http"
	usageRepository "github.com/allisson/gateway/internal/usage/repository"
	usageUseCase "github.com/allisson/gateway/internal/usage/usecase"
)

// UsageEventRepository returns the usage ledger repository based on database driver.
func (c *Container) UsageEventRepository() (usageUseCase.UsageEventRepository, error) {
	var err error
	c.usageEventRepoInit.Do(func() {
		c.usageEventRepo, err = c.initUsageEventRepository()
		if err != nil {
			c.initErrors["usageEventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["usageEventRepo"]; exists {
		return nil, storedErr
	}
	return c.usageEventRepo, nil
}

// QuotaCounterRepository returns the quota counter repository based on database driver.
func (c *Container) QuotaCounterRepository() (usageUseCase.QuotaCounterRepository, error) {
	var err error
	c.quotaRepoInit.Do(func() {
		c.quotaRepo, err = c.initQuotaCounterRepository()
		if err != nil {
			c.initErrors["quotaRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["quotaRepo"]; exists {
		return nil, storedErr
	}
	return c.quotaRepo, nil
}

// UsageUseCase returns the usage use case.
func (c *Container) UsageUseCase() (usageUseCase.UsageUseCase, error) {
	var err error
	c.usageUCInit.Do(func() {
		c.usageUC, err = c.initUsageUseCase()
		if err != nil {
			c.initErrors["usageUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["usageUseCase"]; exists {
		return nil, storedErr
	}
	return c.usageUC, nil
}

// UsageRecorder returns the background usage recorder.
// Run must be started for enqueued events to be persisted.
func (c *Container) UsageRecorder() (usageUseCase.UsageRecorder, error) {
	var err error
	c.usageRecorderInit.Do(func() {
		c.usageRecorder, err = c.initUsageRecorder()
		if err != nil {
			c.initErrors["usageRecorder"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["usageRecorder"]; exists {
		return nil, storedErr
	}
	return c.usageRecorder, nil
}

// UsageHandler returns the HTTP handler for usage statistics.
func (c *Container) UsageHandler() (*usageHTTP.UsageHandler, error) {
	var err error
	c.usageHandlerInit.Do(func() {
		c.usageHandler, err = c.initUsageHandler()
		if err != nil {
			c.initErrors["usageHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["usageHandler"]; exists {
		return nil, storedErr
	}
	return c.usageHandler, nil
}

// initUsageEventRepository creates the usage ledger repository instance.
func (c *Container) initUsageEventRepository() (usageUseCase.UsageEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for usage event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return usageRepository.NewMySQLUsageEventRepository(db), nil
	case "postgres":
		return usageRepository.NewPostgreSQLUsageEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initQuotaCounterRepository creates the quota counter repository instance.
func (c *Container) initQuotaCounterRepository() (usageUseCase.QuotaCounterRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for quota counter repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return usageRepository.NewMySQLQuotaRepository(db), nil
	case "postgres":
		return usageRepository.NewPostgreSQLQuotaRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUsageUseCase creates the usage use case with all its dependencies.
func (c *Container) initUsageUseCase() (usageUseCase.UsageUseCase, error) {
	eventRepo, err := c.UsageEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage event repository for usage use case: %w", err)
	}

	quotaRepo, err := c.QuotaCounterRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get quota counter repository for usage use case: %w", err)
	}

	apiRepo, err := c.APIRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api repository for usage use case: %w", err)
	}

	subscriptionRepo, err := c.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription repository for usage use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for usage use case: %w", err)
	}

	useCase := usageUseCase.NewUsageUseCase(eventRepo, quotaRepo, apiRepo, subscriptionRepo)

	return usageUseCase.NewUsageUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initUsageRecorder creates the background usage recorder.
func (c *Container) initUsageRecorder() (usageUseCase.UsageRecorder, error) {
	eventRepo, err := c.UsageEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage event repository for usage recorder: %w", err)
	}

	gatewayMetrics, err := c.GatewayMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway metrics for usage recorder: %w", err)
	}

	return usageUseCase.NewUsageRecorder(eventRepo, gatewayMetrics, c.Logger(), usageUseCase.RecorderConfig{
		QueueSize:     c.config.RecorderQueueSize,
		Workers:       c.config.RecorderWorkers,
		MaxRetries:    c.config.RecorderMaxRetries,
		RetryInterval: c.config.RecorderRetryInterval,
	}), nil
}

// initUsageHandler creates the usage HTTP handler with all its dependencies.
func (c *Container) initUsageHandler() (*usageHTTP.UsageHandler, error) {
	useCase, err := c.UsageUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage use case for usage handler: %w", err)
	}

	return usageHTTP.NewUsageHandler(useCase, c.Logger()), nil
}
