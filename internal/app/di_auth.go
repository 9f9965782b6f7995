package app

import (
	"fmt"

	authRepository "github.com/allisson/tokenbox/internal/auth/repository"
	authService "github.com/allisson/tokenbox/internal/auth/service"
	authUseCase "github.com/allisson/tokenbox/internal/auth/usecase"
)

// AuthRepository returns the auth repository instance.
func (c *Container) AuthRepository() (authUseCase.AuthRepository, error) {
	c.authRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["authRepo"] = err
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.authRepo = authRepository.NewMySQLAuthRepository(db)
		case "postgres":
			c.authRepo = authRepository.NewPostgreSQLAuthRepository(db)
		default:
			c.initErrors["authRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["authRepo"]; exists {
		return nil, err
	}
	return c.authRepo, nil
}

// TokenService returns the bearer token service instance.
func (c *Container) TokenService() (authService.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService, nil
}

// PasswordService returns the password hashing service instance.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	c.passwordSvcInit.Do(func() {
		c.passwordSvc = authService.NewPasswordService()
	})
	return c.passwordSvc, nil
}

// AuthUseCase returns the authentication use case instance.
func (c *Container) AuthUseCase() (authUseCase.UseCase, error) {
	c.authUCInit.Do(func() {
		authRepo, err := c.AuthRepository()
		if err != nil {
			c.initErrors["authUC"] = err
			return
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["authUC"] = err
			return
		}

		resolver, err := c.Resolver()
		if err != nil {
			c.initErrors["authUC"] = err
			return
		}

		tokenService, err := c.TokenService()
		if err != nil {
			c.initErrors["authUC"] = err
			return
		}

		passwordService, err := c.PasswordService()
		if err != nil {
			c.initErrors["authUC"] = err
			return
		}

		c.authUC = authUseCase.NewAuthUseCase(
			authRepo,
			userRepo,
			resolver,
			tokenService,
			passwordService,
			c.config.AuthTokenExpiration,
		)
	})
	if err, exists := c.initErrors["authUC"]; exists {
		return nil, err
	}
	return c.authUC, nil
}
