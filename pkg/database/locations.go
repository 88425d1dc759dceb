package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

const locationColumns = `location_id, area_name, latitude, longitude, elevation, created_at`

// ListLocations returns locations whose area name contains search, ordered by area name
func (dm *DatabaseManager) ListLocations(ctx context.Context, search string) ([]models.Location, error) {
	var where conditions
	if search != "" {
		where.add("area_name ILIKE $%d", searchPattern(search))
	}

	query := `SELECT ` + locationColumns + ` FROM locations WHERE 1=1` + where.clause +
		` ORDER BY area_name NULLS LAST, location_id`

	locations := []models.Location{}
	if err := dm.selectWithHealthCheck(ctx, &locations, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// GetLocation returns a location by ID
func (dm *DatabaseManager) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	query := `SELECT ` + locationColumns + ` FROM locations WHERE location_id = $1`
	if err := dm.getWithHealthCheck(ctx, &location, query, id); err != nil {
		return nil, err
	}
	return &location, nil
}

// CreateLocation stores a new location. A second location with the same
// coordinates is refused with ErrConstraint.
func (dm *DatabaseManager) CreateLocation(ctx context.Context, location *models.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO locations (area_name, latitude, longitude, elevation)
        VALUES ($1, $2, $3, $4)
        RETURNING location_id, created_at
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.QueryRowxContext(ctx, query,
			location.AreaName, location.Latitude, location.Longitude, location.Elevation,
		).Scan(&location.ID, &location.CreatedAt))
	})
}

// UpdateLocation overwrites the editable fields of a location
func (dm *DatabaseManager) UpdateLocation(ctx context.Context, location *models.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	query := `
        UPDATE locations
        SET area_name = $1, latitude = $2, longitude = $3, elevation = $4
        WHERE location_id = $5
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, query,
			location.AreaName, location.Latitude, location.Longitude, location.Elevation, location.ID)
	})
}

// DeleteLocation removes a location. Locations still used by sensors are refused with ErrConstraint.
func (dm *DatabaseManager) DeleteLocation(ctx context.Context, id int64) error {
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `DELETE FROM locations WHERE location_id = $1`, id)
	})
}
