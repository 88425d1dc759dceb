package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// HealthChecker monitors database connection health
type HealthChecker struct {
	db            *sqlx.DB
	checkInterval time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	mu            sync.RWMutex
	isHealthy     bool
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sqlx.DB, checkInterval time.Duration) *HealthChecker {
	return &HealthChecker{
		db:            db,
		checkInterval: checkInterval,
		stopChan:      make(chan struct{}),
		isHealthy:     true,
	}
}

// Start begins monitoring the database connection
func (chc *HealthChecker) Start() {
	ticker := time.NewTicker(chc.checkInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-chc.stopChan:
				return
			case <-ticker.C:
				chc.checkConnection()
			}
		}
	}()
}

// Stop stops monitoring the database connection. It is safe to call more than once.
func (chc *HealthChecker) Stop() {
	chc.stopOnce.Do(func() {
		close(chc.stopChan)
	})
}

// checkConnection pings the database and records the result.
// The pool re-dials on its own, so a failed ping only flips the flag.
func (chc *HealthChecker) checkConnection() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := chc.db.PingContext(ctx)

	chc.mu.Lock()
	defer chc.mu.Unlock()

	if err != nil {
		if chc.isHealthy {
			log.Error().Err(err).Msg("Database connection health check failed")
		}
		chc.isHealthy = false
		return
	}

	if !chc.isHealthy {
		log.Info().Msg("Database connection restored")
	}
	chc.isHealthy = true
}

// IsHealthy returns the current health status of the connection
func (chc *HealthChecker) IsHealthy() bool {
	chc.mu.RLock()
	defer chc.mu.RUnlock()
	return chc.isHealthy
}

// EnsureConnection fails fast while the connection is known to be down
// and re-checks it before giving up.
func (chc *HealthChecker) EnsureConnection(ctx context.Context) error {
	if chc.IsHealthy() {
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := chc.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database connection check failed: %w", err)
	}

	chc.mu.Lock()
	chc.isHealthy = true
	chc.mu.Unlock()
	log.Info().Msg("Database connection restored")
	return nil
}
