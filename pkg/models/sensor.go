package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SensorStatus is the operational state of a sensor
type SensorStatus string

// Sensor statuses, mirrored by the sensor_status enum in the schema
const (
	SensorStatusActive      SensorStatus = "ACTIVE"
	SensorStatusInactive    SensorStatus = "INACTIVE"
	SensorStatusMaintenance SensorStatus = "MAINTENANCE"
)

// SensorStatuses lists every valid status in display order
var SensorStatuses = []SensorStatus{
	SensorStatusActive,
	SensorStatusInactive,
	SensorStatusMaintenance,
}

// Valid reports whether s is one of the known statuses
func (s SensorStatus) Valid() bool {
	for _, known := range SensorStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of calendar dates such as install dates
const DateLayout = "2006-01-02"

// Sensor represents a physical sensor device
type Sensor struct {
	ID          int64        `db:"sensor_id" json:"sensor_id"`
	Model       string       `db:"model" json:"model"`
	InstallDate time.Time    `db:"install_date" json:"install_date"`
	Status      SensorStatus `db:"status" json:"status"`
	TypeID      int64        `db:"type_id" json:"type_id"`
	LocationID  int64        `db:"location_id" json:"location_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// Validate checks required fields, references and the status enum
func (s *Sensor) Validate() error {
	s.Model = strings.TrimSpace(s.Model)
	if s.Model == "" {
		return fmt.Errorf("%w: model is required", ErrValidation)
	}
	if len(s.Model) > 50 {
		return fmt.Errorf("%w: model must be at most 50 characters", ErrValidation)
	}
	if s.InstallDate.IsZero() {
		return fmt.Errorf("%w: install date is required", ErrValidation)
	}
	if s.Status == "" {
		s.Status = SensorStatusActive
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, s.Status)
	}
	if s.TypeID <= 0 {
		return fmt.Errorf("%w: sensor type is required", ErrValidation)
	}
	if s.LocationID <= 0 {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	return nil
}

// SensorView is a sensor joined with its type and location
type SensorView struct {
	Sensor
	TypeName     string  `db:"type_name" json:"sensor_type"`
	LocationName *string `db:"location_name" json:"location_name"`
}

// SensorExportRow is a sensor with the coordinates used by the CSV export
type SensorExportRow struct {
	SensorView
	Latitude  decimal.Decimal `db:"latitude" json:"latitude"`
	Longitude decimal.Decimal `db:"longitude" json:"longitude"`
}

// SensorFilter holds the optional predicates of the sensor listing.
// Zero values mean "no filter".
type SensorFilter struct {
	Search     string
	Status     string
	TypeID     int64
	LocationID int64
	// OrderByModel sorts by model instead of newest first, as form choices are listed
	OrderByModel bool
}

// SensorDeleteResult counts the rows removed by a sensor delete
type SensorDeleteResult struct {
	Readings          int64 `json:"readings"`
	MaintenanceEvents int64 `json:"maintenance_events"`
}
