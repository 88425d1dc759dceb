package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

const maintenanceViewSelect = `
        SELECT
            m.maintenance_id, m.sensor_id, m.tech_id, m.event_type, m.event_date, m.notes, m.created_at,
            s.model AS sensor_model,
            t.name AS technician_name
        FROM maintenance_events m
        JOIN sensors s ON s.sensor_id = m.sensor_id
        JOIN technicians t ON t.tech_id = m.tech_id
    `

// ListMaintenanceEvents returns maintenance events joined with sensor model and
// technician name, most recent event first.
func (dm *DatabaseManager) ListMaintenanceEvents(ctx context.Context, filter models.MaintenanceFilter) ([]models.MaintenanceEventView, error) {
	var where conditions
	if filter.SensorID != 0 {
		where.add("m.sensor_id = $%d", filter.SensorID)
	}
	if filter.TechID != 0 {
		where.add("m.tech_id = $%d", filter.TechID)
	}
	if filter.EventType != "" {
		where.add("m.event_type::text = $%d", filter.EventType)
	}

	query := maintenanceViewSelect + ` WHERE 1=1` + where.clause + ` ORDER BY m.event_date DESC, m.maintenance_id DESC`

	events := []models.MaintenanceEventView{}
	if err := dm.selectWithHealthCheck(ctx, &events, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list maintenance events: %w", err)
	}
	return events, nil
}

// GetMaintenanceEvent returns a maintenance event joined with sensor model and technician name
func (dm *DatabaseManager) GetMaintenanceEvent(ctx context.Context, id int64) (*models.MaintenanceEventView, error) {
	var event models.MaintenanceEventView
	if err := dm.getWithHealthCheck(ctx, &event, maintenanceViewSelect+` WHERE m.maintenance_id = $1`, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateMaintenanceEvent stores a new maintenance event.
// Unknown sensor or technician references are refused with ErrConstraint.
func (dm *DatabaseManager) CreateMaintenanceEvent(ctx context.Context, event *models.MaintenanceEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO maintenance_events (sensor_id, tech_id, event_type, event_date, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING maintenance_id, created_at
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.QueryRowxContext(ctx, query,
			event.SensorID, event.TechID, event.EventType, event.EventDate, event.Notes,
		).Scan(&event.ID, &event.CreatedAt))
	})
}

// UpdateMaintenanceEvent overwrites the editable fields of a maintenance event
func (dm *DatabaseManager) UpdateMaintenanceEvent(ctx context.Context, event *models.MaintenanceEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	query := `
        UPDATE maintenance_events
        SET sensor_id = $1, tech_id = $2, event_type = $3, event_date = $4, notes = $5
        WHERE maintenance_id = $6
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, query,
			event.SensorID, event.TechID, event.EventType, event.EventDate, event.Notes, event.ID)
	})
}

// DeleteMaintenanceEvent removes a maintenance event
func (dm *DatabaseManager) DeleteMaintenanceEvent(ctx context.Context, id int64) error {
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `DELETE FROM maintenance_events WHERE maintenance_id = $1`, id)
	})
}
