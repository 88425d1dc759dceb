package database

import (
	"context"
	"fmt"

	"github.com/sguter90/microclimate/pkg/models"
)

// Export queries always return the full table, independent of listing filters.

// ExportSensors returns every sensor with its type, area and coordinates
func (dm *DatabaseManager) ExportSensors(ctx context.Context) ([]models.SensorExportRow, error) {
	query := `
        SELECT
            s.sensor_id, s.model, s.install_date, s.status, s.type_id, s.location_id,
            s.created_at, s.updated_at,
            st.name AS type_name,
            l.area_name AS location_name,
            l.latitude, l.longitude
        FROM sensors s
        JOIN sensor_types st ON st.type_id = s.type_id
        JOIN locations l ON l.location_id = s.location_id
        ORDER BY s.sensor_id
    `
	rows := []models.SensorExportRow{}
	if err := dm.selectWithHealthCheck(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to export sensors: %w", err)
	}
	return rows, nil
}

// ExportReadings returns every joined reading, newest first
func (dm *DatabaseManager) ExportReadings(ctx context.Context) ([]models.ReadingView, error) {
	rows := []models.ReadingView{}
	if err := dm.selectWithHealthCheck(ctx, &rows, readingViewSelect+readingOrder); err != nil {
		return nil, fmt.Errorf("failed to export readings: %w", err)
	}
	return rows, nil
}

// ExportLocations returns every location
func (dm *DatabaseManager) ExportLocations(ctx context.Context) ([]models.Location, error) {
	rows := []models.Location{}
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY location_id`
	if err := dm.selectWithHealthCheck(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to export locations: %w", err)
	}
	return rows, nil
}

// ExportTechnicians returns every technician
func (dm *DatabaseManager) ExportTechnicians(ctx context.Context) ([]models.Technician, error) {
	rows := []models.Technician{}
	query := `SELECT ` + technicianColumns + ` FROM technicians ORDER BY tech_id`
	if err := dm.selectWithHealthCheck(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to export technicians: %w", err)
	}
	return rows, nil
}

// ExportMaintenanceEvents returns every maintenance event with sensor model and technician name, newest first
func (dm *DatabaseManager) ExportMaintenanceEvents(ctx context.Context) ([]models.MaintenanceEventView, error) {
	rows := []models.MaintenanceEventView{}
	if err := dm.selectWithHealthCheck(ctx, &rows, maintenanceViewSelect+` ORDER BY m.event_date DESC, m.maintenance_id DESC`); err != nil {
		return nil, fmt.Errorf("failed to export maintenance events: %w", err)
	}
	return rows, nil
}

// ExportSensorTypes returns every sensor type
func (dm *DatabaseManager) ExportSensorTypes(ctx context.Context) ([]models.SensorType, error) {
	rows := []models.SensorType{}
	query := `SELECT ` + sensorTypeColumns + ` FROM sensor_types ORDER BY type_id`
	if err := dm.selectWithHealthCheck(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to export sensor types: %w", err)
	}
	return rows, nil
}
