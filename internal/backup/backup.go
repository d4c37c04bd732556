package backup

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookshelfapp/bookshelf/internal/backup/stream"
	"github.com/bookshelfapp/bookshelf/internal/id"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const archiveSuffix = ".bookshelf.zip"

// BookLookup reports whether a book exists in the catalog.
type BookLookup interface {
	Has(id int) bool
}

// Deps are the collaborators of a Service.
type Deps struct {
	Adapter   *persistence.Adapter
	Books     BookLookup
	BackupDir string
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Service creates, lists and restores reading-state archives.
type Service struct {
	adapter   *persistence.Adapter
	books     BookLookup
	backupDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a Service.
func NewService(deps Deps) *Service {
	s := &Service{
		adapter:   deps.Adapter,
		books:     deps.Books,
		backupDir: deps.BackupDir,
		logger:    deps.Logger,
		now:       deps.Clock,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create writes every user's progress into a new archive.
func (s *Service) Create(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	start := s.now()

	backupID, err := id.Generate("bkp")
	if err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		timestamp := start.Format("2006-01-02-150405")
		outputPath = filepath.Join(s.backupDir, "backup-"+timestamp+archiveSuffix)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	s.logger.Info("creating backup", "output", outputPath, "include_session", opts.IncludeSession)

	// Written under a temp name and renamed once complete.
	tmpPath := outputPath + ".tmp"
	counts, err := s.writeArchive(ctx, tmpPath, backupID, start, opts)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("finalize backup: %w", err)
	}

	size, checksum, err := fileChecksum(outputPath)
	if err != nil {
		return nil, err
	}

	result := &BackupResult{
		ID:       backupID,
		Path:     outputPath,
		Size:     size,
		Counts:   counts,
		Duration: s.now().Sub(start),
		Checksum: checksum,
	}

	s.logger.Info("backup complete",
		"id", result.ID,
		"path", result.Path,
		"size", result.Size,
		"users", counts.Users,
		"records", counts.Records)

	return result, nil
}

func (s *Service) writeArchive(ctx context.Context, path, backupID string, createdAt time.Time, opts BackupOptions) (EntityCounts, error) {
	var counts EntityCounts

	f, err := os.Create(path)
	if err != nil {
		return counts, fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	users, err := s.adapter.ProgressUsers(ctx)
	if err != nil {
		return counts, err
	}

	w, err := stream.NewWriter(zw, progressFile)
	if err != nil {
		return counts, fmt.Errorf("create %s: %w", progressFile, err)
	}
	for _, userID := range users {
		list, err := s.adapter.LoadProgress(ctx, userID)
		if err != nil {
			return counts, err
		}
		raw, err := persistence.EncodeProgress(list)
		if err != nil {
			return counts, err
		}
		if err := w.Write(userEntry{UserID: userID, Progress: raw}); err != nil {
			return counts, fmt.Errorf("write progress for user %d: %w", userID, err)
		}

		counts.Users++
		counts.Records += len(list)
		for _, p := range list {
			counts.Notes += len(p.Notes)
		}
	}

	includesSession := false
	if opts.IncludeSession {
		u, ok, err := s.adapter.LoadSession(ctx)
		if err != nil {
			return counts, err
		}
		if ok {
			if err := stream.WriteJSON(zw, sessionFile, u); err != nil {
				return counts, fmt.Errorf("write session: %w", err)
			}
			includesSession = true
		}
	}

	manifest := Manifest{
		ID:              backupID,
		Version:         FormatVersion,
		CreatedAt:       createdAt.UTC(),
		Counts:          counts,
		IncludesSession: includesSession,
	}
	if err := stream.WriteJSON(zw, manifestFile, manifest); err != nil {
		return counts, fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return counts, fmt.Errorf("close archive: %w", err)
	}
	if err := f.Sync(); err != nil {
		return counts, fmt.Errorf("sync archive: %w", err)
	}
	return counts, nil
}

// List returns the archives in the backup dir, newest first.
func (s *Service) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), archiveSuffix) {
			continue
		}
		path := filepath.Join(s.backupDir, e.Name())

		manifest, err := ReadManifest(path)
		if err != nil {
			s.logger.Warn("skipping unreadable backup", "path", path, "error", err)
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			ID:        manifest.ID,
			Path:      path,
			Size:      info.Size(),
			CreatedAt: manifest.CreatedAt,
			Counts:    manifest.Counts,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// ReadManifest reads and checks the manifest of the archive at path.
func ReadManifest(path string) (*Manifest, error) {
	zr, err := zip.OpenReader(path)
	if os.IsNotExist(err) {
		return nil, ErrBackupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	return readManifest(&zr.Reader)
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	var m Manifest
	if err := stream.ReadJSON(zr, manifestFile, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if !compatible(m.Version) {
		return nil, fmt.Errorf("%w: %q", ErrVersionMismatch, m.Version)
	}
	return &m, nil
}

func fileChecksum(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", fmt.Errorf("checksum archive: %w", err)
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
