// Package upload pushes Alpha Progression exports from a local directory to
// a remote RepCoach server, remembering which files were already sent.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/importer"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsSent   int
	LogsInserted   int
	LogsDuplicated int
}

// Sender delivers one export file to the server.
type Sender interface {
	SendExport(ctx context.Context, profileID uuid.UUID, data []byte) (*importer.Result, error)
}

// Uploader walks an export directory and sends each CSV file once.
type Uploader struct {
	client    Sender
	state     *importer.StateDB
	profileID uuid.UUID
	root      string
	dryRun    bool
	log       *slog.Logger
	stats     Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client Sender, state *importer.StateDB, profileID uuid.UUID, root string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client:    client,
		state:     state,
		profileID: profileID,
		root:      root,
		dryRun:    dryRun,
		log:       log,
	}
}

// Run executes the upload pipeline. A file that fails is counted and
// skipped; it will be retried on the next run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := importer.CSVFiles(u.root)
	if err != nil {
		return &u.stats, err
	}
	u.stats.FilesTotal = len(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		if err := u.processFile(ctx, path); err != nil {
			return &u.stats, err
		}
	}
	return &u.stats, nil
}

// processFile returns an error only for state database failures.
func (u *Uploader) processFile(ctx context.Context, path string) error {
	rel, err := filepath.Rel(u.root, path)
	if err != nil || rel == "." {
		rel = filepath.Base(path)
	}

	hash, err := importer.HashFile(path)
	if err != nil {
		u.log.Warn("hashing failed", "file", rel, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if u.state != nil {
		done, err := u.state.IsImported(u.profileID, rel, hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", rel, err)
		}
		if done {
			u.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("reading failed", "file", rel, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	if u.dryRun {
		sessions, err := importer.ParseAlpha(bytes.NewReader(data))
		if err != nil {
			u.log.Warn("parse failed", "file", rel, "error", err)
			u.stats.FilesErrored++
			return nil
		}
		u.log.Info("dry run", "file", rel, "sessions", len(sessions))
		u.stats.SessionsSent += len(sessions)
		u.stats.FilesUploaded++
		return nil
	}

	res, err := u.client.SendExport(ctx, u.profileID, data)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u.log.Warn("upload failed", "file", rel, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	u.stats.FilesUploaded++
	u.stats.SessionsSent += res.SessionsReceived
	u.stats.LogsInserted += res.LogsInserted
	u.stats.LogsDuplicated += res.LogsDuplicated
	u.log.Info("uploaded", "file", rel, "inserted", res.LogsInserted, "duplicated", res.LogsDuplicated)

	if u.state != nil {
		if err := u.state.MarkImported(u.profileID, rel, hash, res.SessionsReceived); err != nil {
			return fmt.Errorf("recording state for %s: %w", rel, err)
		}
	}
	return nil
}
