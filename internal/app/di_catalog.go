package app

import (
	"fmt"

	catalogHTTP "github.com/allisson/gateway/internal/catalog/http"
	catalogRepository "github.com/allisson/gateway/internal/catalog/repository"
	catalogUseCase "github.com/allisson/gateway/internal/catalog/usecase"
)

// APIRepository returns the catalog API repository based on database driver.
func (c *Container) APIRepository() (catalogUseCase.APIRepository, error) {
	var err error
	c.apiRepoInit.Do(func() {
		c.apiRepo, err = c.initAPIRepository()
		if err != nil {
			c.initErrors["apiRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiRepo"]; exists {
		return nil, storedErr
	}
	return c.apiRepo, nil
}

// PackageRepository returns the package repository based on database driver.
func (c *Container) PackageRepository() (catalogUseCase.PackageRepository, error) {
	var err error
	c.packageRepoInit.Do(func() {
		c.packageRepo, err = c.initPackageRepository()
		if err != nil {
			c.initErrors["packageRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["packageRepo"]; exists {
		return nil, storedErr
	}
	return c.packageRepo, nil
}

// CatalogUseCase returns the catalog use case.
func (c *Container) CatalogUseCase() (catalogUseCase.CatalogUseCase, error) {
	var err error
	c.catalogUCInit.Do(func() {
		c.catalogUC, err = c.initCatalogUseCase()
		if err != nil {
			c.initErrors["catalogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["catalogUseCase"]; exists {
		return nil, storedErr
	}
	return c.catalogUC, nil
}

// CatalogHandler returns the HTTP handler for catalog browsing.
func (c *Container) CatalogHandler() (*catalogHTTP.CatalogHandler, error) {
	var err error
	c.catalogHandlerInit.Do(func() {
		c.catalogHandler, err = c.initCatalogHandler()
		if err != nil {
			c.initErrors["catalogHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["catalogHandler"]; exists {
		return nil, storedErr
	}
	return c.catalogHandler, nil
}

// initAPIRepository creates the catalog API repository instance.
func (c *Container) initAPIRepository() (catalogUseCase.APIRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return catalogRepository.NewMySQLAPIRepository(db), nil
	case "postgres":
		return catalogRepository.NewPostgreSQLAPIRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPackageRepository creates the package repository instance.
func (c *Container) initPackageRepository() (catalogUseCase.PackageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for package repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return catalogRepository.NewMySQLPackageRepository(db), nil
	case "postgres":
		return catalogRepository.NewPostgreSQLPackageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCatalogUseCase creates the catalog use case with all its dependencies.
func (c *Container) initCatalogUseCase() (catalogUseCase.CatalogUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for catalog use case: %w", err)
	}

	apiRepo, err := c.APIRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api repository for catalog use case: %w", err)
	}

	packageRepo, err := c.PackageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get package repository for catalog use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for catalog use case: %w", err)
	}

	useCase := catalogUseCase.NewCatalogUseCase(txManager, apiRepo, packageRepo)

	return catalogUseCase.NewCatalogUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initCatalogHandler creates the catalog HTTP handler with all its dependencies.
func (c *Container) initCatalogHandler() (*catalogHTTP.CatalogHandler, error) {
	useCase, err := c.CatalogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog use case for catalog handler: %w", err)
	}

	return catalogHTTP.NewCatalogHandler(useCase, c.Logger()), nil
}
