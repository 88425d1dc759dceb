package models

import (
	"fmt"
	"time"
)

// MaintenanceEventType is the kind of work done during a maintenance event
type MaintenanceEventType string

// Maintenance event types, mirrored by the maintenance_event_type enum in the schema
const (
	EventTypeCalibration MaintenanceEventType = "CALIBRATION"
	EventTypeRepair      MaintenanceEventType = "REPAIR"
	EventTypeReplacement MaintenanceEventType = "REPLACEMENT"
)

// MaintenanceEventTypes lists every valid event type in display order
var MaintenanceEventTypes = []MaintenanceEventType{
	EventTypeCalibration,
	EventTypeRepair,
	EventTypeReplacement,
}

// Valid reports whether t is one of the known event types
func (t MaintenanceEventType) Valid() bool {
	for _, known := range MaintenanceEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MaintenanceEvent records work done by a technician on a sensor
type MaintenanceEvent struct {
	ID        int64                `db:"maintenance_id" json:"maintenance_id"`
	SensorID  int64                `db:"sensor_id" json:"sensor_id"`
	TechID    int64                `db:"tech_id" json:"tech_id"`
	EventType MaintenanceEventType `db:"event_type" json:"event_type"`
	EventDate time.Time            `db:"event_date" json:"event_date"`
	Notes     *string              `db:"notes" json:"notes"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}

// Validate checks references, the event type enum and the event date
func (m *MaintenanceEvent) Validate() error {
	if m.SensorID <= 0 {
		return fmt.Errorf("%w: sensor is required", ErrValidation)
	}
	if m.TechID <= 0 {
		return fmt.Errorf("%w: technician is required", ErrValidation)
	}
	if !m.EventType.Valid() {
		return fmt.Errorf("%w: invalid event type %q", ErrValidation, m.EventType)
	}
	if m.EventDate.IsZero() {
		return fmt.Errorf("%w: event date is required", ErrValidation)
	}
	return nil
}

// MaintenanceEventView is a maintenance event joined with sensor model and technician name
type MaintenanceEventView struct {
	MaintenanceEvent
	SensorModel    string `db:"sensor_model" json:"sensor_model"`
	TechnicianName string `db:"technician_name" json:"technician_name"`
}

// MaintenanceFilter holds the optional predicates of the maintenance listing
type MaintenanceFilter struct {
	SensorID  int64
	TechID    int64
	EventType string
}
