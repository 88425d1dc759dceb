package models

import (
	"fmt"
	"strings"
	"time"
)

// Technician performs maintenance on sensors
type Technician struct {
	ID             int64     `db:"tech_id" json:"tech_id"`
	Name           string    `db:"name" json:"name"`
	ContactNo      *string   `db:"contact_no" json:"contact_no"`
	Specialization *string   `db:"specialization" json:"specialization"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Validate checks required fields and column limits
func (t *Technician) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(t.Name) > 100 {
		return fmt.Errorf("%w: name must be at most 100 characters", ErrValidation)
	}
	if t.ContactNo != nil && len(*t.ContactNo) > 15 {
		return fmt.Errorf("%w: contact number must be at most 15 characters", ErrValidation)
	}
	if t.Specialization != nil && len(*t.Specialization) > 50 {
		return fmt.Errorf("%w: specialization must be at most 50 characters", ErrValidation)
	}
	return nil
}

// TechnicianStats is a technician with the number of maintenance events they performed
type TechnicianStats struct {
	Technician
	MaintenanceCount int `db:"maintenance_count" json:"maintenance_count"`
}
