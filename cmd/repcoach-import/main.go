package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/config"
	"github.com/claude/repcoach/internal/importer"
	"github.com/claude/repcoach/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	profile := flag.String("profile", "", "profile UUID to import into (required)")
	exportPath := flag.String("path", "", "Alpha Progression CSV file or directory of exports (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" || *profile == "" {
		fmt.Fprintf(os.Stderr, "Usage: repcoach-import -config config.yaml -profile <UUID> -path /path/to/exports [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	profileID, err := uuid.Parse(*profile)
	if err != nil {
		log.Error("invalid profile ID", "profile", *profile, "error", err)
		os.Exit(1)
	}
	if _, err := os.Stat(*exportPath); err != nil {
		log.Error("export path does not exist", "path", *exportPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	if _, err := db.GetProfile(ctx, profileID); err != nil {
		log.Error("profile lookup failed", "profile", profileID, "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	state, err := importer.OpenStateDB(cfg.Import.StateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Run import
	imp := importer.New(db, cat, log, *dryRun).WithState(state).WithRecorder(db)
	res, err := imp.ImportPath(ctx, profileID, *exportPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, res)
		os.Exit(1)
	}

	printStats(log, res)
	log.Info("import complete")
}

func printStats(log *slog.Logger, res *importer.Result) {
	log.Info("import stats",
		"files_processed", res.FilesProcessed,
		"files_skipped", res.FilesSkipped,
		"files_errored", res.FilesErrored,
		"sessions_received", res.SessionsReceived,
		"logs_inserted", res.LogsInserted,
		"logs_duplicated", res.LogsDuplicated,
	)
}
