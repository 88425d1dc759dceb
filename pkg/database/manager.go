package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sguter90/microclimate/pkg/config"
)

// DatabaseManager handles all database operations
type DatabaseManager struct {
	db            *sqlx.DB
	healthChecker *HealthChecker
}

// NewDatabaseManager connects to PostgreSQL and starts health checking
func NewDatabaseManager(cfg config.DatabaseConfig) (*DatabaseManager, error) {
	db, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	dm := newDatabaseManager(db)
	dm.healthChecker.Start()

	return dm, nil
}

func newDatabaseManager(db *sqlx.DB) *DatabaseManager {
	return &DatabaseManager{
		db:            db,
		healthChecker: NewHealthChecker(db, 30*time.Second),
	}
}

// connectDatabase opens the pool and verifies the connection
func connectDatabase(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to database")
	return db, nil
}

// GetDB returns the underlying connection pool
func (dm *DatabaseManager) GetDB() *sqlx.DB {
	return dm.db
}

// Close closes the database connection and stops health checking
func (dm *DatabaseManager) Close() error {
	if dm.healthChecker != nil {
		dm.healthChecker.Stop()
	}
	if dm.db != nil {
		return dm.db.Close()
	}
	return nil
}

// IsConnectionHealthy returns the current health status
func (dm *DatabaseManager) IsConnectionHealthy() bool {
	return dm.healthChecker.IsHealthy()
}

// Ping checks the connection right now
func (dm *DatabaseManager) Ping(ctx context.Context) error {
	return dm.healthChecker.EnsureConnection(ctx)
}

// Init applies all pending migrations
func (dm *DatabaseManager) Init(ctx context.Context) error {
	log.Info().Msg("Running database migrations...")

	runner, err := NewMigrationsRunner(dm.db)
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database initialization completed successfully")
	return nil
}

// WithTx runs fn inside a read-write transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
func (dm *DatabaseManager) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return dm.runTx(ctx, nil, fn)
}

// withSnapshot runs fn inside a read-only REPEATABLE READ transaction so that
// every query in fn observes the same snapshot.
func (dm *DatabaseManager) withSnapshot(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return dm.runTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (dm *DatabaseManager) runTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) (err error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return err
	}

	tx, err := dm.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to roll back transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}
	return nil
}

// selectWithHealthCheck runs a multi-row query into dest with connection health verification
func (dm *DatabaseManager) selectWithHealthCheck(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return err
	}
	return classifyError(dm.db.SelectContext(ctx, dest, query, args...))
}

// getWithHealthCheck runs a single-row query into dest with connection health verification
func (dm *DatabaseManager) getWithHealthCheck(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return err
	}
	return classifyError(dm.db.GetContext(ctx, dest, query, args...))
}

// execAffecting runs a statement inside tx and reports ErrNotFound when no row was touched
func execAffecting(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
