package models

import (
	"fmt"
	"strings"
	"time"
)

// SensorType groups sensors measuring the same quantity (temperature, humidity, ...)
type SensorType struct {
	ID          int64     `db:"type_id" json:"type_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Validate checks required fields and column limits
func (st *SensorType) Validate() error {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(st.Name) > 50 {
		return fmt.Errorf("%w: name must be at most 50 characters", ErrValidation)
	}
	return nil
}
