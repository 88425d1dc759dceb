package models

import "time"

// SensorStatusLog is one entry of the status-change audit trail.
// Rows are written by a database trigger, never by the application.
type SensorStatusLog struct {
	ID              int64         `db:"log_id" json:"log_id"`
	SensorID        int64         `db:"sensor_id" json:"sensor_id"`
	OldStatus       *SensorStatus `db:"old_status" json:"old_status"`
	NewStatus       *SensorStatus `db:"new_status" json:"new_status"`
	ChangeTimestamp time.Time     `db:"change_timestamp" json:"change_timestamp"`
}

// StatusChange is a status log entry joined with the sensor model
type StatusChange struct {
	SensorStatusLog
	SensorModel string `db:"sensor_model" json:"sensor_model"`
}
