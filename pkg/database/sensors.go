package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/sguter90/microclimate/pkg/models"
)

const sensorViewSelect = `
        SELECT
            s.sensor_id, s.model, s.install_date, s.status, s.type_id, s.location_id,
            s.created_at, s.updated_at,
            st.name AS type_name,
            l.area_name AS location_name
        FROM sensors s
        JOIN sensor_types st ON st.type_id = s.type_id
        JOIN locations l ON l.location_id = s.location_id
    `

// ListSensors returns sensors joined with their type and location, newest first
// unless filter.OrderByModel is set. Every other non-zero field of filter narrows the result.
func (dm *DatabaseManager) ListSensors(ctx context.Context, filter models.SensorFilter) ([]models.SensorView, error) {
	var where conditions

	if filter.Search != "" {
		where.add("s.model ILIKE $%d", searchPattern(filter.Search))
	}
	if filter.Status != "" {
		where.add("s.status::text = $%d", filter.Status)
	}
	if filter.TypeID != 0 {
		where.add("s.type_id = $%d", filter.TypeID)
	}
	if filter.LocationID != 0 {
		where.add("s.location_id = $%d", filter.LocationID)
	}

	order := ` ORDER BY s.sensor_id DESC`
	if filter.OrderByModel {
		order = ` ORDER BY s.model, s.sensor_id`
	}
	query := sensorViewSelect + ` WHERE 1=1` + where.clause + order

	sensors := []models.SensorView{}
	if err := dm.selectWithHealthCheck(ctx, &sensors, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}
	return sensors, nil
}

// GetSensor returns a sensor joined with its type and location
func (dm *DatabaseManager) GetSensor(ctx context.Context, id int64) (*models.SensorView, error) {
	var sensor models.SensorView
	if err := dm.getWithHealthCheck(ctx, &sensor, sensorViewSelect+` WHERE s.sensor_id = $1`, id); err != nil {
		return nil, err
	}
	return &sensor, nil
}

// CreateSensor stores a new sensor. Unknown type or location references are refused with ErrConstraint.
func (dm *DatabaseManager) CreateSensor(ctx context.Context, sensor *models.Sensor) error {
	if err := sensor.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO sensors (model, install_date, status, type_id, location_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING sensor_id, created_at, updated_at
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.QueryRowxContext(ctx, query,
			sensor.Model,
			sensor.InstallDate.Format(models.DateLayout),
			sensor.Status,
			sensor.TypeID,
			sensor.LocationID,
		).Scan(&sensor.ID, &sensor.CreatedAt, &sensor.UpdatedAt))
	})
}

// UpdateSensor overwrites the editable fields of a sensor.
// A status change is recorded in sensor_status_logs by the database.
func (dm *DatabaseManager) UpdateSensor(ctx context.Context, sensor *models.Sensor) error {
	if err := sensor.Validate(); err != nil {
		return err
	}

	query := `
        UPDATE sensors
        SET model = $1, install_date = $2, status = $3, type_id = $4, location_id = $5,
            updated_at = CURRENT_TIMESTAMP
        WHERE sensor_id = $6
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, query,
			sensor.Model,
			sensor.InstallDate.Format(models.DateLayout),
			sensor.Status,
			sensor.TypeID,
			sensor.LocationID,
			sensor.ID,
		)
	})
}

// UpdateSensorStatus changes only the status of a sensor
func (dm *DatabaseManager) UpdateSensorStatus(ctx context.Context, id int64, status models.SensorStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", models.ErrValidation, status)
	}

	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx,
			`UPDATE sensors SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE sensor_id = $2`,
			status, id)
	})
}

// DeleteSensor removes a sensor together with its readings and maintenance
// events in one transaction. Status log rows follow through ON DELETE CASCADE.
func (dm *DatabaseManager) DeleteSensor(ctx context.Context, id int64) (models.SensorDeleteResult, error) {
	var result models.SensorDeleteResult

	err := dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		// lock the sensor so no reading or event can be attached while we delete
		var locked int64
		if err := tx.GetContext(ctx, &locked, `SELECT sensor_id FROM sensors WHERE sensor_id = $1 FOR UPDATE`, id); err != nil {
			return classifyError(err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM readings WHERE sensor_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete readings: %w", err)
		}
		if result.Readings, err = res.RowsAffected(); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM maintenance_events WHERE sensor_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete maintenance events: %w", err)
		}
		if result.MaintenanceEvents, err = res.RowsAffected(); err != nil {
			return err
		}

		return execAffecting(ctx, tx, `DELETE FROM sensors WHERE sensor_id = $1`, id)
	})
	if err != nil {
		return models.SensorDeleteResult{}, err
	}

	log.Info().
		Int64("sensor_id", id).
		Int64("readings", result.Readings).
		Int64("maintenance_events", result.MaintenanceEvents).
		Msg("Deleted sensor")

	return result, nil
}
