package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// unreachableDB returns a pool pointing at a closed port; sqlx.Open does not dial.
func unreachableDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=nobody dbname=nothing sslmode=disable connect_timeout=1")
	if err != nil {
		t.Fatalf("Failed to open database handle: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewHealthChecker(t *testing.T) {
	db := unreachableDB(t)
	interval := 5 * time.Second

	hc := NewHealthChecker(db, interval)

	if hc == nil {
		t.Fatal("Expected HealthChecker instance, got nil")
	}

	if hc.db != db {
		t.Error("Expected db to be set correctly")
	}

	if hc.checkInterval != interval {
		t.Errorf("Expected checkInterval=%v, got %v", interval, hc.checkInterval)
	}

	if !hc.isHealthy {
		t.Error("Expected initial health status to be true")
	}

	if hc.stopChan == nil {
		t.Error("Expected stopChan to be initialized")
	}
}

func TestIsHealthy(t *testing.T) {
	hc := NewHealthChecker(unreachableDB(t), 5*time.Second)

	if !hc.IsHealthy() {
		t.Error("Expected initial health status to be true")
	}

	hc.mu.Lock()
	hc.isHealthy = false
	hc.mu.Unlock()

	if hc.IsHealthy() {
		t.Error("Expected health status to be false after manual change")
	}
}

func TestCheckConnection_MarksUnhealthy(t *testing.T) {
	hc := NewHealthChecker(unreachableDB(t), 5*time.Second)

	hc.checkConnection()

	if hc.IsHealthy() {
		t.Error("Expected failed ping to mark the connection unhealthy")
	}
}

func TestStop_Twice(t *testing.T) {
	hc := NewHealthChecker(unreachableDB(t), 5*time.Second)
	hc.Start()

	hc.Stop()
	hc.Stop()

	select {
	case <-hc.stopChan:
	case <-time.After(100 * time.Millisecond):
		t.Error("Expected stopChan to be closed after Stop()")
	}
}

func TestEnsureConnection_Unhealthy(t *testing.T) {
	hc := NewHealthChecker(unreachableDB(t), 5*time.Second)

	hc.mu.Lock()
	hc.isHealthy = false
	hc.mu.Unlock()

	if err := hc.EnsureConnection(context.Background()); err == nil {
		t.Error("Expected error when connection is unhealthy and unreachable")
	}

	if hc.IsHealthy() {
		t.Error("Expected connection to stay unhealthy")
	}
}

func TestEnsureConnection_HealthySkipsPing(t *testing.T) {
	hc := NewHealthChecker(unreachableDB(t), 5*time.Second)

	if err := hc.EnsureConnection(context.Background()); err != nil {
		t.Errorf("Expected no error while flagged healthy, got: %v", err)
	}
}

func TestEnsureConnection_Recovers(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		t.Skip("Skipping test that requires real database connection")
	}
	defer db.Close()

	hc := NewHealthChecker(db, 5*time.Second)
	hc.mu.Lock()
	hc.isHealthy = false
	hc.mu.Unlock()

	if err := hc.EnsureConnection(context.Background()); err != nil {
		t.Fatalf("Expected reachable database to recover, got: %v", err)
	}
	if !hc.IsHealthy() {
		t.Error("Expected connection to be flagged healthy again")
	}
}

func TestHealthChecker_ConcurrentAccess(t *testing.T) {
	hc := NewHealthChecker(unreachableDB(t), 5*time.Second)

	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = hc.IsHealthy()
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		go func(val bool) {
			for j := 0; j < 100; j++ {
				hc.mu.Lock()
				hc.isHealthy = val
				hc.mu.Unlock()
			}
			done <- true
		}(i%2 == 0)
	}

	for i := 0; i < 20; i++ {
		<-done
	}
}
