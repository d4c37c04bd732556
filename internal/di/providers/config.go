// Package providers contains dependency injection providers for Bookshelf.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	overrides := do.MustInvoke[config.Overrides](i)
	return config.LoadConfig(overrides)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("Starting Bookshelf",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"storage_backend", cfg.Storage.Backend,
		"data_path", cfg.Storage.Path,
	)

	return log, nil
}

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
