// Package persistence maps reading progress and the session user to kv entries.
//
// Progress for user N lives under "userProgress_N" as a JSON array; the session
// user lives under "currentUser". Corrupt entries are logged and read as absent.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/kv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TimeLayout is how lastReadAt is written: ISO-8601, UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Adapter reads and writes whole progress lists and the session slot.
type Adapter struct {
	store  kv.Store
	logger *slog.Logger
}

// New creates an adapter over store.
func New(store kv.Store, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{store: store, logger: logger}
}

type noteRecord struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

type progressRecord struct {
	BookID      int          `json:"bookId"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	LastReadAt  string       `json:"lastReadAt"`
	Notes       []noteRecord `json:"notes"`
}

// SaveProgress replaces userID's stored list with list.
func (a *Adapter) SaveProgress(ctx context.Context, userID int, list []domain.ReadingProgress) error {
	data, err := EncodeProgress(list)
	if err != nil {
		return err
	}
	key := kv.ProgressKey(userID)
	if err := a.store.Set(ctx, key, data); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "save progress for user %d", userID)
	}
	return nil
}

// DeleteProgress removes userID's stored list.
func (a *Adapter) DeleteProgress(ctx context.Context, userID int) error {
	if err := a.store.Delete(ctx, kv.ProgressKey(userID)); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "delete progress for user %d", userID)
	}
	return nil
}

// LoadProgress returns userID's stored list. A missing or malformed entry yields an
// empty list and no error; only storage failures are returned.
func (a *Adapter) LoadProgress(ctx context.Context, userID int) ([]domain.ReadingProgress, error) {
	key := kv.ProgressKey(userID)

	data, err := a.store.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return []domain.ReadingProgress{}, nil
	}
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "load progress for user %d", userID)
	}

	list, err := DecodeProgress(data)
	if err != nil {
		a.logger.Warn("discarding malformed progress entry",
			"user_id", userID,
			"key", key,
			"error", err,
		)
		return []domain.ReadingProgress{}, nil
	}
	return list, nil
}

// EncodeProgress serializes list in the stored wire shape.
func EncodeProgress(list []domain.ReadingProgress) ([]byte, error) {
	records := make([]progressRecord, len(list))
	for i, p := range list {
		notes := make([]noteRecord, len(p.Notes))
		for j, n := range p.Notes {
			notes[j] = noteRecord(n)
		}
		records[i] = progressRecord{
			BookID:      p.BookID,
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			LastReadAt:  p.LastReadAt.UTC().Format(TimeLayout),
			Notes:       notes,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "encode progress")
	}
	return data, nil
}

// DecodeProgress parses a stored progress list. Any undecodable record or timestamp
// fails the whole list with a MALFORMED_DATA error.
func DecodeProgress(data []byte) ([]domain.ReadingProgress, error) {
	var records []progressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeMalformedData, "decode progress")
	}

	list := make([]domain.ReadingProgress, 0, len(records))
	for i, r := range records {
		lastReadAt, err := time.Parse(time.RFC3339Nano, r.LastReadAt)
		if err != nil {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeMalformedData, "record %d: lastReadAt", i)
		}

		var notes []domain.Note
		if len(r.Notes) > 0 {
			notes = make([]domain.Note, len(r.Notes))
			for j, n := range r.Notes {
				notes[j] = domain.Note(n)
			}
		}

		list = append(list, domain.ReadingProgress{
			BookID:      r.BookID,
			CurrentPage: r.CurrentPage,
			TotalPages:  r.TotalPages,
			LastReadAt:  lastReadAt.UTC(),
			Notes:       notes,
		})
	}
	return list, nil
}

// ProgressUsers lists the user ids that have a stored progress entry.
func (a *Adapter) ProgressUsers(ctx context.Context) ([]int, error) {
	keys, err := a.store.Keys(ctx, kv.ProgressKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list progress keys: %w", err)
	}

	ids := make([]int, 0, len(keys))
	for _, key := range keys {
		if id, ok := kv.ParseProgressKey(key); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
