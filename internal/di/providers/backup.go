package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/backup"
	"github.com/bookshelfapp/bookshelf/internal/catalog"
	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
)

// ProvideBackupService provides archive export and restore. Archives live in
// <data path>/backups.
func ProvideBackupService(i do.Injector) (*backup.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return backup.NewService(backup.Deps{
		Adapter:   do.MustInvoke[*persistence.Adapter](i),
		Books:     do.MustInvoke[*catalog.Catalog](i),
		BackupDir: filepath.Join(cfg.Storage.Path, "backups"),
		Logger:    do.MustInvoke[*logger.Logger](i).Logger,
	}), nil
}
