package persistence

import (
	"context"
	"errors"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/kv"
)

// SaveSession stores u in the current-session slot.
func (a *Adapter) SaveSession(ctx context.Context, u domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "encode session")
	}
	if err := a.store.Set(ctx, kv.CurrentUserKey, data); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "save session")
	}
	return nil
}

// LoadSession returns the user in the session slot. A corrupt slot is removed and
// reported as absent.
func (a *Adapter) LoadSession(ctx context.Context) (domain.User, bool, error) {
	data, err := a.store.Get(ctx, kv.CurrentUserKey)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, domainerrors.Wrap(err, domainerrors.CodeInternal, "load session")
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil || u.ID <= 0 {
		a.logger.Warn("discarding corrupt session entry", "key", kv.CurrentUserKey, "error", err)
		if delErr := a.store.Delete(ctx, kv.CurrentUserKey); delErr != nil {
			a.logger.Error("failed to clear corrupt session entry", "error", delErr)
		}
		return domain.User{}, false, nil
	}
	return u, true, nil
}

// ClearSession empties the session slot.
func (a *Adapter) ClearSession(ctx context.Context) error {
	if err := a.store.Delete(ctx, kv.CurrentUserKey); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "clear session")
	}
	return nil
}
