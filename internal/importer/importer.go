// Package importer turns Alpha Progression CSV exports into workout logs.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/storage"
)

// ErrParse marks input that is not a readable Alpha Progression export.
// Storage failures are never wrapped in it.
var ErrParse = errors.New("invalid CSV")

// LogWriter stores imported logs. InsertImportedLog reports false for a
// key that was already imported.
type LogWriter interface {
	InsertImportedLog(ctx context.Context, l *models.WorkoutLog, key string) (bool, error)
}

// Recorder keeps an audit trail of import runs. A run is inserted as
// "running" and updated once it finishes.
type Recorder interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
}

// Result tracks import progress.
type Result struct {
	FilesProcessed   int `json:"files_processed"`
	FilesSkipped     int `json:"files_skipped"`
	FilesErrored     int `json:"files_errored"`
	SessionsReceived int `json:"sessions_received"`
	LogsInserted     int `json:"logs_inserted"`
	LogsDuplicated   int `json:"logs_duplicated"`
}

// Importer parses exports and writes them as workout logs.
type Importer struct {
	store    LogWriter
	resolver Resolver
	log      *slog.Logger
	dryRun   bool
	state    *StateDB
	recorder Recorder
}

// New creates a new Importer. resolver may be nil.
func New(store LogWriter, resolver Resolver, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, resolver: resolver, log: log, dryRun: dryRun}
}

// WithState makes ImportPath skip files already imported with the same content.
func (imp *Importer) WithState(s *StateDB) *Importer {
	imp.state = s
	return imp
}

// WithRecorder records every run in the import log.
func (imp *Importer) WithRecorder(r Recorder) *Importer {
	imp.recorder = r
	return imp
}

// ImportReader imports a single CSV stream.
func (imp *Importer) ImportReader(ctx context.Context, profileID uuid.UUID, source string, r io.Reader) (*Result, error) {
	start := time.Now()
	logID := imp.begin(ctx, profileID, source)
	res := &Result{}
	err := imp.importStream(ctx, profileID, r, res)
	if err == nil {
		res.FilesProcessed++
	}
	imp.finish(ctx, logID, profileID, source, res, err, start)
	return res, err
}

// ImportPath imports a CSV file, or every *.csv file under a directory in
// lexical order. Files that fail to parse are counted and skipped.
func (imp *Importer) ImportPath(ctx context.Context, profileID uuid.UUID, path string) (*Result, error) {
	start := time.Now()
	source := "file:" + path
	logID := imp.begin(ctx, profileID, source)
	res := &Result{}
	err := imp.importPath(ctx, profileID, path, res)
	imp.finish(ctx, logID, profileID, source, res, err, start)
	return res, err
}

func (imp *Importer) importPath(ctx context.Context, profileID uuid.UUID, path string, res *Result) error {
	files, err := CSVFiles(path)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := imp.importFile(ctx, profileID, f, res); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) importFile(ctx context.Context, profileID uuid.UUID, path string, res *Result) error {
	var hash string
	if imp.state != nil {
		h, err := HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		done, err := imp.state.IsImported(profileID, path, h)
		if err != nil {
			return err
		}
		if done {
			imp.log.Info("skipping already imported file", "file", path)
			res.FilesSkipped++
			return nil
		}
		hash = h
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	before := res.SessionsReceived
	if err := imp.importStream(ctx, profileID, f, res); err != nil {
		if ctx.Err() != nil {
			return err
		}
		imp.log.Warn("import failed", "file", path, "error", err)
		res.FilesErrored++
		return nil
	}
	res.FilesProcessed++

	if imp.state != nil && !imp.dryRun {
		if err := imp.state.MarkImported(profileID, path, hash, res.SessionsReceived-before); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) importStream(ctx context.Context, profileID uuid.UUID, r io.Reader, res *Result) error {
	sessions, err := ParseAlpha(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	res.SessionsReceived += len(sessions)

	for _, s := range sessions {
		l, key := ToWorkoutLog(profileID, s, imp.resolver)
		if imp.dryRun {
			res.LogsInserted++
			continue
		}
		inserted, err := imp.store.InsertImportedLog(ctx, &l, key)
		if err != nil {
			return fmt.Errorf("inserting session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		if inserted {
			res.LogsInserted++
		} else {
			res.LogsDuplicated++
		}
	}
	return nil
}

// begin inserts a "running" import log and returns its ID, or 0 when
// nothing was recorded.
func (imp *Importer) begin(ctx context.Context, profileID uuid.UUID, source string) int64 {
	if imp.recorder == nil || imp.dryRun {
		return 0
	}
	id, err := imp.recorder.InsertImportLog(ctx, storage.ImportLog{
		ProfileID: profileID,
		Source:    source,
		Status:    "running",
	})
	if err != nil {
		imp.log.Error("failed to create import log", "source", source, "error", err)
		return 0
	}
	return id
}

// finish writes the run outcome to the import log. Failures are logged, not returned.
func (imp *Importer) finish(ctx context.Context, id int64, profileID uuid.UUID, source string, res *Result, importErr error, start time.Time) {
	if id == 0 {
		return
	}
	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}
	durationMs := int(time.Since(start).Milliseconds())

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := imp.recorder.UpdateImportLog(ctx, id, storage.ImportLog{
		ProfileID:      profileID,
		Source:         source,
		Status:         status,
		FilesProcessed: res.FilesProcessed,
		LogsReceived:   res.SessionsReceived,
		LogsInserted:   res.LogsInserted,
		DurationMs:     &durationMs,
		ErrorMessage:   errMsg,
	})
	if err != nil {
		imp.log.Error("failed to update import log", "id", id, "error", err)
	}
}

// CSVFiles returns path itself, or the *.csv files below it when it is a directory.
func CSVFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".csv") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}
