package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/config"
	"github.com/RustySU/network-coverage/internal/ingest"
	"github.com/RustySU/network-coverage/internal/pkg/logger"
)

var (
	flagFile     string
	flagTruncate bool
	flagDir      string
)

var rootCmd = &cobra.Command{
	Use:   "coverage-loader",
	Short: "Manage the mobile transmitter site inventory",
	Long: `coverage-loader applies database migrations and bulk-loads the
government transmitter site inventory (CSV with Lambert 93 coordinates)
into PostgreSQL for the coverage API.`,
	SilenceUsage: true,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a site inventory CSV into the database",
	RunE:  runLoad,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations in order",
	RunE:  runMigrate,
}

func init() {
	loadCmd.Flags().StringVarP(&flagFile, "file", "f", "", "path to the site inventory CSV (required)")
	loadCmd.Flags().BoolVar(&flagTruncate, "truncate", false, "empty the site table before loading")
	loadCmd.MarkFlagRequired("file")

	migrateCmd.Flags().StringVarP(&flagDir, "dir", "d", "migrations", "directory with .sql migration files")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// The COPY-based loader needs lib/pq, not the pgx driver the API uses.
	db, err := sqlx.Connect("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, log, db, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	_, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()
	defer log.Sync()

	f, err := os.Open(flagFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", flagFile, err)
	}
	defer f.Close()

	start := time.Now()

	records, report, err := ingest.ReadCSV(f)
	if err != nil {
		return err
	}

	log.Info("Inventory parsed",
		zap.String("file", flagFile),
		zap.Int("accepted", report.Accepted),
		zap.Int("skipped", report.Skipped),
		zap.Int("rejected", report.Rejected),
	)

	ctx := cmd.Context()
	loader := ingest.NewLoader(db, log)

	if flagTruncate {
		if err := loader.Truncate(ctx); err != nil {
			return err
		}
		log.Info("Site table truncated")
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Loading sites"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	count, err := loader.Load(ctx, records, func(int) {
		if bar != nil {
			bar.Add(1)
		}
	})
	if err != nil {
		return err
	}

	log.Info("Load complete",
		zap.Int("sites", count),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, log, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()
	defer log.Sync()

	entries, err := os.ReadDir(flagDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return fmt.Errorf("no .sql files in %s", flagDir)
	}

	ctx := cmd.Context()
	for _, name := range files {
		if err := applyMigration(ctx, db, filepath.Join(flagDir, name)); err != nil {
			return err
		}
		log.Info("Migration applied", zap.String("file", name))
	}

	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, string(sql)); err != nil {
		return fmt.Errorf("migration %s failed: %w", path, err)
	}
	return nil
}
