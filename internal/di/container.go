// Package di provides dependency injection configuration for Bookshelf.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/backup"
	"github.com/bookshelfapp/bookshelf/internal/catalog"
	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/di/providers"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
	"github.com/bookshelfapp/bookshelf/internal/service"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// Command-line overrides are resolved before the environment and .env file.
func NewContainer(overrides config.Overrides) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, overrides)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideAdapter)

	// Catalog and search
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideLoginLimiter)
	do.Provide(injector, providers.ProvideAuthProvider)

	// Business services
	do.Provide(injector, providers.ProvideReaderService)
	do.Provide(injector, providers.ProvideBackupService)

	return injector
}

// Bootstrap initializes all services and restores the persisted session.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) (*service.ReaderService, error) {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return nil, err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return nil, err
	}
	_ = do.MustInvoke[*persistence.Adapter](injector)

	if _, err := do.Invoke[*catalog.Catalog](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return nil, err
	}

	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)
	_ = do.MustInvoke[*auth.Provider](injector)

	svc, err := do.Invoke[*service.ReaderService](injector)
	if err != nil {
		return nil, err
	}
	_ = do.MustInvoke[*backup.Service](injector)

	providers.RestoreSession(injector, svc)
	return svc, nil
}
