package database

import (
	"context"
	"strings"
	"testing"
)

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion int
		wantName    string
		wantOK      bool
	}{
		{"000001_init_schema.up.sql", 1, "init_schema", true},
		{"000003_reporting_functions.up.sql", 3, "reporting_functions", true},
		{"42_x.up.sql", 42, "x", true},
		{"init.up.sql", 0, "", false},
		{"abc_init.up.sql", 0, "", false},
		{"000000_zero.up.sql", 0, "", false},
		{"000004_.up.sql", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if version != tt.wantVersion || name != tt.wantName {
				t.Errorf("Expected (%d, %q), got (%d, %q)", tt.wantVersion, tt.wantName, version, name)
			}
		})
	}
}

func TestLoadMigrations(t *testing.T) {
	runner, err := NewMigrationsRunner(nil)
	if err != nil {
		t.Fatalf("Expected NewMigrationsRunner to succeed: %v", err)
	}

	if runner.logger == nil {
		t.Error("Expected logger to be initialized")
	}

	if len(runner.migrations) != 3 {
		t.Fatalf("Expected 3 migrations, got %d", len(runner.migrations))
	}

	for i := 1; i < len(runner.migrations); i++ {
		if runner.migrations[i-1].Version >= runner.migrations[i].Version {
			t.Errorf("Expected migrations to be sorted by version, but %d >= %d",
				runner.migrations[i-1].Version, runner.migrations[i].Version)
		}
	}

	for _, migration := range runner.migrations {
		if migration.Name == "" {
			t.Error("Expected migration name to be non-empty")
		}
		if strings.TrimSpace(migration.SQL) == "" {
			t.Errorf("Expected migration %d to have SQL", migration.Version)
		}
		if strings.Contains(migration.Name, "down") {
			t.Errorf("Expected down migrations to be ignored, got %s", migration.Name)
		}
	}
}

func TestMigrationsDefineSchemaObjects(t *testing.T) {
	runner, err := NewMigrationsRunner(nil)
	if err != nil {
		t.Fatalf("Expected NewMigrationsRunner to succeed: %v", err)
	}

	var all strings.Builder
	for _, migration := range runner.migrations {
		all.WriteString(migration.SQL)
	}
	sql := all.String()

	for _, object := range []string{
		"CREATE TYPE sensor_status",
		"CREATE TYPE maintenance_event_type",
		"CONSTRAINT unique_coordinates UNIQUE (latitude, longitude)",
		"ON DELETE CASCADE",
		"FUNCTION log_sensor_status_change()",
		"FUNCTION get_sensor_readings(p_sensor_id INTEGER)",
		"FUNCTION get_top_technicians(p_limit INTEGER)",
		"FUNCTION get_maintenance_summary()",
	} {
		if !strings.Contains(sql, object) {
			t.Errorf("Expected migrations to contain %q", object)
		}
	}
}

func TestEnableDisableLogging(t *testing.T) {
	runner, err := NewMigrationsRunner(nil)
	if err != nil {
		t.Fatalf("Expected NewMigrationsRunner to succeed: %v", err)
	}

	runner.DisableLogging()
	if runner.logger.GetLevel().String() != "disabled" {
		t.Errorf("Expected disabled logger, got level %s", runner.logger.GetLevel())
	}

	runner.EnableLogging()
	if runner.logger.GetLevel().String() == "disabled" {
		t.Error("Expected logging to be enabled again")
	}
}

func TestRun(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		t.Skip("Skipping test that requires real database connection")
	}
	defer db.Close()

	if err := resetSchema(db); err != nil {
		t.Fatalf("Failed to reset schema: %v", err)
	}

	ctx := context.Background()
	runner, err := NewMigrationsRunner(db)
	if err != nil {
		t.Fatalf("Expected NewMigrationsRunner to succeed: %v", err)
	}
	runner.DisableLogging()

	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Expected Run to succeed: %v", err)
	}

	applied, err := runner.getAppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("Expected getAppliedMigrations to succeed: %v", err)
	}
	for _, migration := range runner.migrations {
		if !applied[migration.Version] {
			t.Errorf("Expected migration %d to be applied", migration.Version)
		}
	}

	// a second run is a no-op
	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Expected second Run to succeed: %v", err)
	}

	statuses, err := runner.Status(ctx)
	if err != nil {
		t.Fatalf("Expected Status to succeed: %v", err)
	}
	if len(statuses) != len(runner.migrations) {
		t.Errorf("Expected %d statuses, got %d", len(runner.migrations), len(statuses))
	}
	for _, status := range statuses {
		if !status.Applied {
			t.Errorf("Expected migration %d to be reported as applied", status.Version)
		}
	}
}

func TestRun_TransactionRollback(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		t.Skip("Skipping test that requires real database connection")
	}
	defer db.Close()

	if err := resetSchema(db); err != nil {
		t.Fatalf("Failed to reset schema: %v", err)
	}

	ctx := context.Background()
	runner, err := NewMigrationsRunner(db)
	if err != nil {
		t.Fatalf("Expected NewMigrationsRunner to succeed: %v", err)
	}
	runner.DisableLogging()

	runner.migrations = append(runner.migrations, Migration{
		Version: 99999,
		Name:    "invalid_migration",
		SQL:     "THIS IS INVALID SQL;",
	})

	err = runner.Run(ctx)
	if err == nil {
		t.Fatal("Expected Run to fail with invalid SQL")
	}
	if !strings.Contains(err.Error(), "failed to apply migration") {
		t.Errorf("Expected error message to contain 'failed to apply migration', got: %v", err)
	}

	applied, err := runner.getAppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("Expected getAppliedMigrations to succeed: %v", err)
	}
	if applied[99999] {
		t.Error("Expected invalid migration to not be recorded")
	}
}
