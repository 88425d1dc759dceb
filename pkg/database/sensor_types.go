package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

const sensorTypeColumns = `type_id, name, description, created_at`

// ListSensorTypes returns sensor types whose name or description contains search, ordered by name
func (dm *DatabaseManager) ListSensorTypes(ctx context.Context, search string) ([]models.SensorType, error) {
	var where conditions
	if search != "" {
		where.add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", searchPattern(search))
	}

	query := `SELECT ` + sensorTypeColumns + ` FROM sensor_types WHERE 1=1` + where.clause + ` ORDER BY name, type_id`

	types := []models.SensorType{}
	if err := dm.selectWithHealthCheck(ctx, &types, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list sensor types: %w", err)
	}
	return types, nil
}

// GetSensorType returns a sensor type by ID
func (dm *DatabaseManager) GetSensorType(ctx context.Context, id int64) (*models.SensorType, error) {
	var st models.SensorType
	query := `SELECT ` + sensorTypeColumns + ` FROM sensor_types WHERE type_id = $1`
	if err := dm.getWithHealthCheck(ctx, &st, query, id); err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateSensorType stores a new sensor type and fills in its ID and creation time
func (dm *DatabaseManager) CreateSensorType(ctx context.Context, st *models.SensorType) error {
	if err := st.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO sensor_types (name, description)
        VALUES ($1, $2)
        RETURNING type_id, created_at
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.QueryRowxContext(ctx, query, st.Name, st.Description).Scan(&st.ID, &st.CreatedAt))
	})
}

// UpdateSensorType overwrites the editable fields of a sensor type
func (dm *DatabaseManager) UpdateSensorType(ctx context.Context, st *models.SensorType) error {
	if err := st.Validate(); err != nil {
		return err
	}

	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx,
			`UPDATE sensor_types SET name = $1, description = $2 WHERE type_id = $3`,
			st.Name, st.Description, st.ID)
	})
}

// DeleteSensorType removes a sensor type. Types still used by sensors are refused with ErrConstraint.
func (dm *DatabaseManager) DeleteSensorType(ctx context.Context, id int64) error {
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `DELETE FROM sensor_types WHERE type_id = $1`, id)
	})
}
