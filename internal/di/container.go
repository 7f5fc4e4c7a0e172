// Package di provides dependency injection configuration for the mahabba server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/mahabbalab/mahabba-server/internal/config"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/di/providers"
	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Dataset and views
	do.Provide(injector, providers.ProvideViews)
	do.Provide(injector, providers.ProvideDatasetSource)

	// Business services
	do.Provide(injector, providers.ProvideAtlasService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, which starts the HTTP server.
// Views are validated here so a bad views file fails at startup.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*config.Views](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[dataset.Source](injector)
	_ = do.MustInvoke[*service.AtlasService](injector)

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
