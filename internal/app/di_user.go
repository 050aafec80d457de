package app

import (
	"fmt"

	userHTTP "github.com/allisson/gateway/internal/user/http"
	userRepository "github.com/allisson/gateway/internal/user/repository"
	userService "github.com/allisson/gateway/internal/user/service"
	userUseCase "github.com/allisson/gateway/internal/user/usecase"
)

// TokenService returns the session token service.
func (c *Container) TokenService() userService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = userService.NewTokenService()
	})
	return c.tokenService
}

// CodeService returns the verification code service.
func (c *Container) CodeService() userService.CodeService {
	c.codeServiceInit.Do(func() {
		c.codeService = userService.NewCodeService()
	})
	return c.codeService
}

// CodeSender returns the verification code sender.
func (c *Container) CodeSender() userService.VerificationSender {
	c.codeSenderInit.Do(func() {
		c.codeSender = userService.NewLogVerificationSender(c.Logger())
	})
	return c.codeSender
}

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// SessionRepository returns the session repository based on database driver.
func (c *Container) SessionRepository() (userUseCase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// VerificationCodeRepository returns the verification code repository based on database driver.
func (c *Container) VerificationCodeRepository() (userUseCase.VerificationCodeRepository, error) {
	var err error
	c.codeRepoInit.Do(func() {
		c.codeRepo, err = c.initVerificationCodeRepository()
		if err != nil {
			c.initErrors["codeRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["codeRepo"]; exists {
		return nil, storedErr
	}
	return c.codeRepo, nil
}

// UserUseCase returns the user use case.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	var err error
	c.userUCInit.Do(func() {
		c.userUC, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUC, nil
}

// UserHandler returns the HTTP handler for account operations.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		c.userHandler, err = c.initUserHandler()
		if err != nil {
			c.initErrors["userHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSessionRepository creates the session repository instance.
func (c *Container) initSessionRepository() (userUseCase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLSessionRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVerificationCodeRepository creates the verification code repository instance.
func (c *Container) initVerificationCodeRepository() (userUseCase.VerificationCodeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for verification code repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLVerificationCodeRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLVerificationCodeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUseCase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for user use case: %w", err)
	}

	codeRepo, err := c.VerificationCodeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification code repository for user use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
	}

	useCase := userUseCase.NewUserUseCase(
		txManager,
		userRepo,
		sessionRepo,
		codeRepo,
		c.TokenService(),
		c.CodeService(),
		c.CodeSender(),
		c.config.SessionTokenExpiration,
		c.config.VerificationCodeExpiration,
	)

	return userUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initUserHandler creates the user HTTP handler with all its dependencies.
func (c *Container) initUserHandler() (*userHTTP.UserHandler, error) {
	useCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
	}

	return userHTTP.NewUserHandler(useCase, c.TokenService(), c.Logger()), nil
}
