package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/kv"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
)

// StoreHandle wraps the key-value store with shutdown capability.
type StoreHandle struct {
	kv.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured key-value backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := kv.Open(cfg.Storage.Backend, cfg.Storage.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Debug("Storage opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	return &StoreHandle{Store: store}, nil
}

// ProvideAdapter provides the persistence adapter over the opened store.
func ProvideAdapter(i do.Injector) (*persistence.Adapter, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return persistence.New(storeHandle.Store, log.Logger), nil
}
