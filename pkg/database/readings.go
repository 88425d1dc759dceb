package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

const readingViewSelect = `
        SELECT
            r.reading_id, r.sensor_id, r.reading_value, r.reading_timestamp,
            s.model AS sensor_model,
            s.status AS sensor_status,
            st.name AS type_name,
            l.area_name AS location_name
        FROM readings r
        JOIN sensors s ON s.sensor_id = r.sensor_id
        JOIN sensor_types st ON st.type_id = s.type_id
        JOIN locations l ON l.location_id = s.location_id
    `

const readingOrder = ` ORDER BY r.reading_timestamp DESC, r.reading_id DESC`

// ListReadings returns one page of joined readings, newest first.
// Count and page are read from the same snapshot.
func (dm *DatabaseManager) ListReadings(ctx context.Context, filter models.ReadingFilter) (models.ReadingPage, error) {
	var where conditions
	if filter.SensorID != 0 {
		where.add("r.sensor_id = $%d", filter.SensorID)
	}

	page := filter.NormalizedPage()
	var total int
	items := []models.ReadingView{}

	err := dm.withSnapshot(ctx, func(tx *sqlx.Tx) error {
		countQuery := `SELECT COUNT(*) FROM readings r WHERE 1=1` + where.clause
		if err := tx.GetContext(ctx, &total, countQuery, where.args...); err != nil {
			return fmt.Errorf("failed to get total count: %w", err)
		}

		if filter.Offset() >= total {
			return nil
		}

		limit := where.next(models.ReadingsPageSize)
		offset := where.next(filter.Offset())
		query := readingViewSelect + ` WHERE 1=1` + where.clause + readingOrder +
			fmt.Sprintf(" LIMIT %s OFFSET %s", limit, offset)

		if err := tx.SelectContext(ctx, &items, query, where.args...); err != nil {
			return fmt.Errorf("failed to list readings: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ReadingPage{}, err
	}

	return models.NewReadingPage(items, total, page), nil
}

// recentReadings returns the newest joined readings
func recentReadings(ctx context.Context, q sqlx.QueryerContext, limit int) ([]models.ReadingView, error) {
	readings := []models.ReadingView{}
	if err := sqlx.SelectContext(ctx, q, &readings, readingViewSelect+readingOrder+` LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent readings: %w", err)
	}
	return readings, nil
}

// GetReading returns a reading joined with its sensor
func (dm *DatabaseManager) GetReading(ctx context.Context, id int64) (*models.ReadingView, error) {
	var reading models.ReadingView
	if err := dm.getWithHealthCheck(ctx, &reading, readingViewSelect+` WHERE r.reading_id = $1`, id); err != nil {
		return nil, err
	}
	return &reading, nil
}

// LatestReading returns the newest reading of a sensor, ErrNotFound when it has none
func (dm *DatabaseManager) LatestReading(ctx context.Context, sensorID int64) (*models.ReadingView, error) {
	var reading models.ReadingView
	query := readingViewSelect + ` WHERE r.sensor_id = $1` + readingOrder + ` LIMIT 1`
	if err := dm.getWithHealthCheck(ctx, &reading, query, sensorID); err != nil {
		return nil, err
	}
	return &reading, nil
}

// CreateReading stores a new reading. An unknown sensor is refused with ErrConstraint.
func (dm *DatabaseManager) CreateReading(ctx context.Context, reading *models.Reading) error {
	if err := reading.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO readings (sensor_id, reading_value, reading_timestamp)
        VALUES ($1, $2, $3)
        RETURNING reading_id
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.QueryRowxContext(ctx, query,
			reading.SensorID, reading.Value, reading.Timestamp,
		).Scan(&reading.ID))
	})
}

// UpdateReading overwrites a reading
func (dm *DatabaseManager) UpdateReading(ctx context.Context, reading *models.Reading) error {
	if err := reading.Validate(); err != nil {
		return err
	}

	query := `
        UPDATE readings
        SET sensor_id = $1, reading_value = $2, reading_timestamp = $3
        WHERE reading_id = $4
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, query, reading.SensorID, reading.Value, reading.Timestamp, reading.ID)
	})
}

// DeleteReading removes a reading
func (dm *DatabaseManager) DeleteReading(ctx context.Context, id int64) error {
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `DELETE FROM readings WHERE reading_id = $1`, id)
	})
}
