package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/catalog"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
	"github.com/bookshelfapp/bookshelf/internal/service"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// ProvideReaderService provides the reader service.
func ProvideReaderService(i do.Injector) (*service.ReaderService, error) {
	return service.NewReaderService(service.Deps{
		Catalog:   do.MustInvoke[*catalog.Catalog](i),
		Auth:      do.MustInvoke[*auth.Provider](i),
		Adapter:   do.MustInvoke[*persistence.Adapter](i),
		Index:     do.MustInvoke[*SearchIndexHandle](i).Index,
		Validator: do.MustInvoke[*validation.Validator](i),
		Logger:    do.MustInvoke[*logger.Logger](i).Logger,
	}), nil
}

// RestoreSession resumes the persisted session so commands run as the last
// signed-in user.
func RestoreSession(i do.Injector, svc *service.ReaderService) {
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if u, ok := svc.Restore(ctx); ok {
		log.Debug("Session restored", "user_id", u.ID, "username", u.Username)
	}
}
