package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

const technicianColumns = `tech_id, name, contact_no, specialization, created_at`

// ListTechnicians returns technicians matching search by name or specialization,
// each with its maintenance event count, ordered by name.
func (dm *DatabaseManager) ListTechnicians(ctx context.Context, search string) ([]models.TechnicianStats, error) {
	var where conditions
	if search != "" {
		where.add("(t.name ILIKE $%[1]d OR t.specialization ILIKE $%[1]d)", searchPattern(search))
	}

	query := `
        SELECT
            t.tech_id, t.name, t.contact_no, t.specialization, t.created_at,
            COUNT(m.maintenance_id) AS maintenance_count
        FROM technicians t
        LEFT JOIN maintenance_events m ON m.tech_id = t.tech_id
        WHERE 1=1` + where.clause + `
        GROUP BY t.tech_id
        ORDER BY t.name, t.tech_id
    `

	technicians := []models.TechnicianStats{}
	if err := dm.selectWithHealthCheck(ctx, &technicians, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	return technicians, nil
}

// GetTechnician returns a technician by ID
func (dm *DatabaseManager) GetTechnician(ctx context.Context, id int64) (*models.Technician, error) {
	var technician models.Technician
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE tech_id = $1`
	if err := dm.getWithHealthCheck(ctx, &technician, query, id); err != nil {
		return nil, err
	}
	return &technician, nil
}

// CreateTechnician stores a new technician
func (dm *DatabaseManager) CreateTechnician(ctx context.Context, technician *models.Technician) error {
	if err := technician.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO technicians (name, contact_no, specialization)
        VALUES ($1, $2, $3)
        RETURNING tech_id, created_at
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return classifyError(tx.QueryRowxContext(ctx, query,
			technician.Name, technician.ContactNo, technician.Specialization,
		).Scan(&technician.ID, &technician.CreatedAt))
	})
}

// UpdateTechnician overwrites the editable fields of a technician
func (dm *DatabaseManager) UpdateTechnician(ctx context.Context, technician *models.Technician) error {
	if err := technician.Validate(); err != nil {
		return err
	}

	query := `
        UPDATE technicians
        SET name = $1, contact_no = $2, specialization = $3
        WHERE tech_id = $4
    `
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, query,
			technician.Name, technician.ContactNo, technician.Specialization, technician.ID)
	})
}

// DeleteTechnician removes a technician. Technicians with maintenance events are refused with ErrConstraint.
func (dm *DatabaseManager) DeleteTechnician(ctx context.Context, id int64) error {
	return dm.WithTx(ctx, func(tx *sqlx.Tx) error {
		return execAffecting(ctx, tx, `DELETE FROM technicians WHERE tech_id = $1`, id)
	})
}
