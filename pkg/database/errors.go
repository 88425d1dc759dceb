package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrConstraint is returned when a write violates a unique, foreign-key, check or not-null constraint
	ErrConstraint = errors.New("constraint violation")
)

// ConstraintError describes a rejected write. It matches ErrConstraint with errors.Is.
type ConstraintError struct {
	Code       string
	Constraint string
	Message    string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConstraint, e.Message)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// friendly messages for the constraints users can realistically hit
var constraintMessages = map[string]string{
	"unique_coordinates":        "a location with these coordinates already exists",
	"users_username_unique":     "username already exists",
	"users_email_unique":        "email already registered",
	"sensors_type_fk":           "sensor type is missing or still used by sensors",
	"sensors_location_fk":       "location is missing or still used by sensors",
	"readings_sensor_fk":        "sensor does not exist",
	"maintenance_sensor_fk":     "sensor does not exist",
	"maintenance_technician_fk": "technician is missing or still has maintenance events",
}

// classifyError maps driver errors onto the package sentinels
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		message, ok := constraintMessages[pqErr.Constraint]
		if !ok {
			message = pqErr.Message
		}
		return &ConstraintError{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Message:    message,
		}
	}

	return err
}
