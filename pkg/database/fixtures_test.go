package database

import (
	"context"
	"testing"
	"time"

	"github.com/sguter90/microclimate/pkg/models"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func createTestSensorType(t *testing.T, dm *DatabaseManager, name string) *models.SensorType {
	t.Helper()
	st := &models.SensorType{Name: name, Description: strPtr(name + " sensors")}
	if err := dm.CreateSensorType(context.Background(), st); err != nil {
		t.Fatalf("Failed to create sensor type %s: %v", name, err)
	}
	return st
}

func createTestLocation(t *testing.T, dm *DatabaseManager, area string, lat, lon string) *models.Location {
	t.Helper()
	location := &models.Location{
		AreaName:  strPtr(area),
		Latitude:  decimal.RequireFromString(lat),
		Longitude: decimal.RequireFromString(lon),
		Elevation: decimal.NewFromInt(920),
	}
	if err := dm.CreateLocation(context.Background(), location); err != nil {
		t.Fatalf("Failed to create location %s: %v", area, err)
	}
	return location
}

func createTestSensor(t *testing.T, dm *DatabaseManager, model string, status models.SensorStatus, typeID, locationID int64) *models.Sensor {
	t.Helper()
	sensor := &models.Sensor{
		Model:       model,
		InstallDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:      status,
		TypeID:      typeID,
		LocationID:  locationID,
	}
	if err := dm.CreateSensor(context.Background(), sensor); err != nil {
		t.Fatalf("Failed to create sensor %s: %v", model, err)
	}
	return sensor
}

func createTestReading(t *testing.T, dm *DatabaseManager, sensorID int64, value string, ts time.Time) *models.Reading {
	t.Helper()
	reading := &models.Reading{
		SensorID:  sensorID,
		Value:     decimal.RequireFromString(value),
		Timestamp: ts,
	}
	if err := dm.CreateReading(context.Background(), reading); err != nil {
		t.Fatalf("Failed to create reading: %v", err)
	}
	return reading
}

func createTestTechnician(t *testing.T, dm *DatabaseManager, name string) *models.Technician {
	t.Helper()
	technician := &models.Technician{Name: name, Specialization: strPtr("Calibration")}
	if err := dm.CreateTechnician(context.Background(), technician); err != nil {
		t.Fatalf("Failed to create technician %s: %v", name, err)
	}
	return technician
}

func createTestEvent(t *testing.T, dm *DatabaseManager, sensorID, techID int64, eventType models.MaintenanceEventType, date time.Time) *models.MaintenanceEvent {
	t.Helper()
	event := &models.MaintenanceEvent{
		SensorID:  sensorID,
		TechID:    techID,
		EventType: eventType,
		EventDate: date,
		Notes:     strPtr("routine"),
	}
	if err := dm.CreateMaintenanceEvent(context.Background(), event); err != nil {
		t.Fatalf("Failed to create maintenance event: %v", err)
	}
	return event
}

// countRows returns the number of rows of a table, for assertions only
func countRows(t *testing.T, dm *DatabaseManager, table string) int {
	t.Helper()
	var n int
	if err := dm.db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
