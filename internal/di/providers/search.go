package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/catalog"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/search"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// ProvideCatalog loads the embedded book catalog.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	v := do.MustInvoke[*validation.Validator](i)
	return catalog.Default(v)
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex builds the in-memory Bleve index over the catalog.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(c.All(), log.Logger)
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}
