package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/bookshelfapp/bookshelf/internal/backup/stream"
	"github.com/bookshelfapp/bookshelf/internal/domain"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
)

// Restore loads the archive at path into storage.
//
// Full mode replaces every stored progress list with the archive's and removes
// lists for users absent from it. A user whose line is present but undecodable
// keeps their stored list, and nothing is removed when a line cannot be read at all. Merge mode combines the two per book using
// opts.MergeStrategy. Records for books missing from the catalog are skipped.
func (s *Service) Restore(ctx context.Context, path string, opts RestoreOptions) (*RestoreResult, error) {
	if !opts.Mode.Valid() {
		return nil, domainerrors.Validationf("invalid restore mode %q", opts.Mode)
	}
	if !opts.MergeStrategy.Valid() {
		return nil, domainerrors.Validationf("invalid merge strategy %q", opts.MergeStrategy)
	}
	if opts.Mode == RestoreModeMerge && opts.MergeStrategy == "" {
		opts.MergeStrategy = MergeKeepLocal
	}

	start := s.now()
	s.logger.Info("starting restore",
		"path", path,
		"mode", opts.Mode,
		"merge_strategy", opts.MergeStrategy,
		"dry_run", opts.DryRun)

	zr, err := zip.OpenReader(path)
	if os.IsNotExist(err) {
		return nil, ErrBackupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	manifest, err := readManifest(&zr.Reader)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}

	seen, complete, err := s.restoreProgress(ctx, &zr.Reader, opts, result)
	if err != nil {
		return nil, err
	}

	if opts.Mode == RestoreModeFull {
		if err := s.dropAbsentUsers(ctx, seen, complete, opts, result); err != nil {
			return nil, err
		}
		if manifest.IncludesSession {
			if err := s.restoreSession(ctx, &zr.Reader, opts, result); err != nil {
				return nil, err
			}
		}
	}

	result.Duration = s.now().Sub(start)

	s.logger.Info("restore complete",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"duration", result.Duration)

	return result, nil
}

// restoreProgress writes each archive user's list. It returns every user id the
// archive names, and whether every line could be attributed to a user.
func (s *Service) restoreProgress(ctx context.Context, zr *zip.Reader, opts RestoreOptions, result *RestoreResult) (map[int]bool, bool, error) {
	rc, err := stream.OpenFile(zr, progressFile)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", progressFile, err)
	}

	seen := make(map[int]bool)
	complete := true
	for entry, err := range stream.NewReader[userEntry](rc).All() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if err != nil {
			complete = false
			result.Skipped["users"]++
			result.Errors = append(result.Errors, RestoreError{EntityType: "user", Error: err.Error()})
			continue
		}

		if entry.UserID <= 0 {
			complete = false
			result.Skipped["users"]++
			result.Errors = append(result.Errors, RestoreError{
				EntityType: "user",
				EntityID:   strconv.Itoa(entry.UserID),
				Error:      "invalid user id",
			})
			continue
		}
		seen[entry.UserID] = true

		list, err := persistence.DecodeProgress(entry.Progress)
		if err != nil {
			result.Skipped["users"]++
			result.Errors = append(result.Errors, RestoreError{
				EntityType: "user",
				EntityID:   strconv.Itoa(entry.UserID),
				Error:      err.Error(),
			})
			continue
		}

		list = s.knownBooks(list, result)

		if opts.Mode == RestoreModeMerge {
			local, err := s.adapter.LoadProgress(ctx, entry.UserID)
			if err != nil {
				return nil, false, err
			}
			list = mergeProgress(local, list, opts.MergeStrategy)
		}

		if !opts.DryRun {
			if err := s.adapter.SaveProgress(ctx, entry.UserID, list); err != nil {
				return nil, false, err
			}
		}
		result.Imported["users"]++
		result.Imported["records"] += len(list)
	}
	return seen, complete, nil
}

func (s *Service) knownBooks(list []domain.ReadingProgress, result *RestoreResult) []domain.ReadingProgress {
	if s.books == nil {
		return list
	}
	kept := list[:0]
	for _, p := range list {
		if !s.books.Has(p.BookID) {
			result.Skipped["records"]++
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func (s *Service) dropAbsentUsers(ctx context.Context, seen map[int]bool, complete bool, opts RestoreOptions, result *RestoreResult) error {
	users, err := s.adapter.ProgressUsers(ctx)
	if err != nil {
		return err
	}
	if !complete {
		s.logger.Warn("archive has unreadable lines, keeping users absent from it")
	}
	for _, userID := range users {
		if seen[userID] {
			continue
		}
		if !complete {
			result.Skipped["removed_users"]++
			continue
		}
		if !opts.DryRun {
			if err := s.adapter.DeleteProgress(ctx, userID); err != nil {
				return err
			}
		}
		result.Imported["removed_users"]++
	}
	return nil
}

func (s *Service) restoreSession(ctx context.Context, zr *zip.Reader, opts RestoreOptions, result *RestoreResult) error {
	var u domain.User
	if err := stream.ReadJSON(zr, sessionFile, &u); err != nil || u.ID <= 0 {
		result.Skipped["session"]++
		return nil
	}
	if !opts.DryRun {
		if err := s.adapter.SaveSession(ctx, u); err != nil {
			return err
		}
	}
	result.Imported["session"]++
	return nil
}

// mergeProgress keeps local order and appends archive records for new books.
func mergeProgress(local, incoming []domain.ReadingProgress, strategy MergeStrategy) []domain.ReadingProgress {
	byBook := make(map[int]int, len(local))
	merged := make([]domain.ReadingProgress, len(local), len(local)+len(incoming))
	for i, p := range local {
		merged[i] = p
		byBook[p.BookID] = i
	}

	for _, p := range incoming {
		i, exists := byBook[p.BookID]
		switch {
		case !exists:
			byBook[p.BookID] = len(merged)
			merged = append(merged, p)
		case strategy == MergeKeepBackup:
			merged[i] = p
		}
	}
	return merged
}
