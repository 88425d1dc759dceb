package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

// The aggregates below are computed by PostgreSQL functions created in the
// migrations. This file only invokes them and scans the rows.

func topTechnicians(ctx context.Context, q sqlx.QueryerContext, limit int) ([]models.TopTechnician, error) {
	technicians := []models.TopTechnician{}
	if err := sqlx.SelectContext(ctx, q, &technicians, `SELECT * FROM get_top_technicians($1)`, limit); err != nil {
		return nil, fmt.Errorf("failed to call get_top_technicians: %w", err)
	}
	return technicians, nil
}

func maintenanceSummary(ctx context.Context, q sqlx.QueryerContext) ([]models.MaintenanceSummaryRow, error) {
	rows := []models.MaintenanceSummaryRow{}
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT * FROM get_maintenance_summary()`); err != nil {
		return nil, fmt.Errorf("failed to call get_maintenance_summary: %w", err)
	}
	return rows, nil
}

// GetSensorReadings returns the reading history of a sensor, newest first.
// An unknown sensor yields ErrNotFound rather than an empty history.
func (dm *DatabaseManager) GetSensorReadings(ctx context.Context, sensorID int64) ([]models.SensorReadingRow, error) {
	rows := []models.SensorReadingRow{}

	err := dm.withSnapshot(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM sensors WHERE sensor_id = $1)`, sensorID); err != nil {
			return fmt.Errorf("failed to check sensor: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		if err := tx.SelectContext(ctx, &rows, `SELECT * FROM get_sensor_readings($1)`, sensorID); err != nil {
			return fmt.Errorf("failed to call get_sensor_readings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// GetTopTechnicians ranks technicians by maintenance event count, ties broken by ID.
// Technicians without events are included while within limit.
func (dm *DatabaseManager) GetTopTechnicians(ctx context.Context, limit int) ([]models.TopTechnician, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1", models.ErrValidation)
	}
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return topTechnicians(ctx, dm.db, limit)
}

// GetMaintenanceSummary returns per event type counts and date spans
func (dm *DatabaseManager) GetMaintenanceSummary(ctx context.Context) ([]models.MaintenanceSummaryRow, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return maintenanceSummary(ctx, dm.db)
}
