package database

import (
	"context"
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationsRunner handles database migrations
type MigrationsRunner struct {
	db         *sqlx.DB
	logger     *zerolog.Logger
	migrations []Migration
}

// NewMigrationsRunner creates a new migration runner
func NewMigrationsRunner(db *sqlx.DB) (*MigrationsRunner, error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "migrations").Logger()

	runner := &MigrationsRunner{
		db:         db,
		logger:     &logger,
		migrations: []Migration{},
	}

	if err := runner.loadMigrations(); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	return runner, nil
}

// DisableLogging silences the runner
func (r *MigrationsRunner) DisableLogging() {
	nop := zerolog.Nop()
	r.logger = &nop
}

// EnableLogging restores output to stderr
func (r *MigrationsRunner) EnableLogging() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "migrations").Logger()
	r.logger = &logger
}

// loadMigrations loads all .up.sql migration files from the embedded filesystem
func (r *MigrationsRunner) loadMigrations() error {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()
		if !strings.HasSuffix(filename, ".up.sql") {
			continue
		}

		// 000001_name.up.sql
		version, name, ok := parseMigrationFilename(filename)
		if !ok {
			r.logger.Warn().Str("file", filename).Msg("Skipping invalid migration file")
			continue
		}

		content, err := migrationFiles.ReadFile("sql/" + filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		r.migrations = append(r.migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     string(content),
		})
	}

	sort.Slice(r.migrations, func(i, j int) bool {
		return r.migrations[i].Version < r.migrations[j].Version
	})

	return nil
}

func parseMigrationFilename(filename string) (int, string, bool) {
	prefix, rest, found := strings.Cut(filename, "_")
	if !found {
		return 0, "", false
	}

	var version int
	if _, err := fmt.Sscanf(prefix, "%d", &version); err != nil || version <= 0 {
		return 0, "", false
	}

	name := strings.TrimSuffix(rest, ".up.sql")
	if name == "" {
		return 0, "", false
	}
	return version, name, true
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist
func (r *MigrationsRunner) createMigrationsTable(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version INTEGER PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (r *MigrationsRunner) getAppliedMigrations(ctx context.Context) (map[int]bool, error) {
	var versions []int
	if err := r.db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version"); err != nil {
		return nil, err
	}

	applied := make(map[int]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

// Run executes all pending migrations, each in its own transaction
func (r *MigrationsRunner) Run(ctx context.Context) error {
	if err := r.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := r.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	pendingCount := 0
	for _, migration := range r.migrations {
		if !applied[migration.Version] {
			pendingCount++
		}
	}

	if pendingCount == 0 {
		r.logger.Info().Msg("No pending migrations")
		return nil
	}

	r.logger.Info().Int("pending", pendingCount).Msg("Found pending migrations")

	for _, migration := range r.migrations {
		if applied[migration.Version] {
			continue
		}

		r.logger.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("Applying migration")

		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
			migration.Version, migration.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		r.logger.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("Applied migration")
	}

	r.logger.Info().Msg("All migrations completed successfully")
	return nil
}

// Status returns every known migration with whether it has been applied
func (r *MigrationsRunner) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := r.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := r.getAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	statuses := make([]MigrationStatus, 0, len(r.migrations))
	for _, migration := range r.migrations {
		statuses = append(statuses, MigrationStatus{
			Version: migration.Version,
			Name:    migration.Name,
			Applied: applied[migration.Version],
		})
	}
	return statuses, nil
}

// MigrationStatus reports whether a migration has been applied
type MigrationStatus struct {
	Version int
	Name    string
	Applied bool
}
