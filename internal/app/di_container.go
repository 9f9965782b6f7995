package app

import (
	"fmt"

	containerRepository "github.com/allisson/tokenbox/internal/container/repository"
	containerUseCase "github.com/allisson/tokenbox/internal/container/usecase"
)

// ContainerRepository returns the container repository instance.
func (c *Container) ContainerRepository() (containerUseCase.ContainerRepository, error) {
	c.containerRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["containerRepo"] = err
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.containerRepo = containerRepository.NewMySQLContainerRepository(db)
		case "postgres":
			c.containerRepo = containerRepository.NewPostgreSQLContainerRepository(db)
		default:
			c.initErrors["containerRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["containerRepo"]; exists {
		return nil, err
	}
	return c.containerRepo, nil
}

// ContainerUseCase returns the container use case instance, wrapped with
// business metrics when metrics are enabled.
func (c *Container) ContainerUseCase() (containerUseCase.UseCase, error) {
	c.containerUCInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		containerRepo, err := c.ContainerRepository()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		tokenRepo, err := c.TokenRepository()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		realmRepo, err := c.RealmRepository()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		resolver, err := c.Resolver()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		engine, err := c.PolicyEngine()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["containerUC"] = err
			return
		}

		useCase := containerUseCase.NewContainerUseCase(
			txManager,
			containerRepo,
			tokenRepo,
			realmRepo,
			resolver,
			engine,
		)

		c.containerUC = containerUseCase.NewContainerUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["containerUC"]; exists {
		return nil, err
	}
	return c.containerUC, nil
}
