package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardRecentReadings is the number of readings shown on the dashboard
const DashboardRecentReadings = 10

// ReportsTopTechnicians and ReportsRecentStatusChanges size the report sections
const (
	ReportsTopTechnicians      = 10
	ReportsRecentStatusChanges = 20
)

// TypeAverage is the mean reading value of one sensor type
type TypeAverage struct {
	TypeName     string          `db:"type_name" json:"sensor_type"`
	AvgValue     decimal.Decimal `db:"avg_value" json:"avg_value"`
	ReadingCount int             `db:"reading_count" json:"reading_count"`
}

// AreaTypeAverage is the mean reading value of one (area, sensor type) pair
type AreaTypeAverage struct {
	AreaName     *string         `db:"area_name" json:"area_name"`
	TypeName     string          `db:"type_name" json:"sensor_type"`
	AvgValue     decimal.Decimal `db:"avg_value" json:"avg_value"`
	ReadingCount int             `db:"reading_count" json:"reading_count"`
}

// StatusCount is the number of sensors currently in one status
type StatusCount struct {
	Status SensorStatus `db:"status" json:"status"`
	Count  int          `db:"count" json:"count"`
}

// EventTypeCount is the number of maintenance events of one type
type EventTypeCount struct {
	EventType MaintenanceEventType `db:"event_type" json:"event_type"`
	Count     int                  `db:"count" json:"count"`
}

// DashboardTotals holds the headline counters of the dashboard
type DashboardTotals struct {
	Sensors           int `db:"sensors" json:"total_sensors"`
	ActiveSensors     int `db:"active_sensors" json:"active_sensors"`
	Readings          int `db:"readings" json:"total_readings"`
	Locations         int `db:"locations" json:"total_locations"`
	Technicians       int `db:"technicians" json:"total_technicians"`
	MaintenanceEvents int `db:"maintenance_events" json:"total_maintenance"`
}

// DashboardSummary is everything the dashboard shows, read from one snapshot
type DashboardSummary struct {
	DashboardTotals
	RecentReadings   []ReadingView    `json:"recent_readings"`
	MaintenanceStats []EventTypeCount `json:"maintenance_stats"`
	AvgReadings      []TypeAverage    `json:"avg_readings"`
}

// SensorReadingRow is one row of the per-sensor reading history routine
type SensorReadingRow struct {
	ReadingID    int64           `db:"reading_id" json:"reading_id"`
	SensorID     int64           `db:"sensor_id" json:"sensor_id"`
	Value        decimal.Decimal `db:"reading_value" json:"reading_value"`
	Timestamp    time.Time       `db:"reading_timestamp" json:"reading_timestamp"`
	SensorModel  string          `db:"sensor_model" json:"sensor_model"`
	TypeName     string          `db:"type_name" json:"sensor_type"`
	LocationName *string         `db:"location_name" json:"location_name"`
}

// TopTechnician is one row of the technician ranking routine
type TopTechnician struct {
	TechID         int64      `db:"tech_id" json:"tech_id"`
	Name           string     `db:"name" json:"name"`
	Specialization *string    `db:"specialization" json:"specialization"`
	EventCount     int        `db:"event_count" json:"event_count"`
	LastEventDate  *time.Time `db:"last_event_date" json:"last_event_date"`
}

// MaintenanceSummaryRow is one row of the maintenance summary routine
type MaintenanceSummaryRow struct {
	EventType       MaintenanceEventType `db:"event_type" json:"event_type"`
	EventCount      int                  `db:"event_count" json:"event_count"`
	SensorCount     int                  `db:"sensor_count" json:"sensor_count"`
	TechnicianCount int                  `db:"technician_count" json:"technician_count"`
	FirstEvent      time.Time            `db:"first_event" json:"first_event"`
	LastEvent       time.Time            `db:"last_event" json:"last_event"`
	SpanDays        decimal.Decimal      `db:"span_days" json:"span_days"`
}

// Reports bundles the analytics shown on the reports page
type Reports struct {
	AreaStats          []AreaTypeAverage       `json:"area_stats"`
	TopTechnicians     []TopTechnician         `json:"top_technicians"`
	MaintenanceSummary []MaintenanceSummaryRow `json:"maintenance_summary"`
	StatusDistribution []StatusCount           `json:"status_dist"`
	StatusLogs         []StatusChange          `json:"status_logs"`
}
