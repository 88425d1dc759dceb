package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

const statusChangeSelect = `
        SELECT
            sl.log_id, sl.sensor_id, sl.old_status, sl.new_status, sl.change_timestamp,
            s.model AS sensor_model
        FROM sensor_status_logs sl
        JOIN sensors s ON s.sensor_id = sl.sensor_id
    `

const statusChangeOrder = ` ORDER BY sl.change_timestamp DESC, sl.log_id DESC`

func recentStatusChanges(ctx context.Context, q sqlx.QueryerContext, limit int) ([]models.StatusChange, error) {
	changes := []models.StatusChange{}
	if err := sqlx.SelectContext(ctx, q, &changes, statusChangeSelect+statusChangeOrder+` LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("failed to get status changes: %w", err)
	}
	return changes, nil
}

// RecentStatusChanges returns the newest status log entries across all sensors
func (dm *DatabaseManager) RecentStatusChanges(ctx context.Context, limit int) ([]models.StatusChange, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1", models.ErrValidation)
	}
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return recentStatusChanges(ctx, dm.db, limit)
}

// SensorStatusHistory returns every status change of one sensor, newest first
func (dm *DatabaseManager) SensorStatusHistory(ctx context.Context, sensorID int64) ([]models.StatusChange, error) {
	changes := []models.StatusChange{}
	query := statusChangeSelect + ` WHERE sl.sensor_id = $1` + statusChangeOrder
	if err := dm.selectWithHealthCheck(ctx, &changes, query, sensorID); err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	return changes, nil
}
