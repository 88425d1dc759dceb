package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sguter90/microclimate/pkg/models"
)

// Groups without readings never appear: the averages use inner joins.

func averageByType(ctx context.Context, q sqlx.QueryerContext) ([]models.TypeAverage, error) {
	query := `
        SELECT
            st.name AS type_name,
            AVG(r.reading_value) AS avg_value,
            COUNT(r.reading_id) AS reading_count
        FROM readings r
        JOIN sensors s ON s.sensor_id = r.sensor_id
        JOIN sensor_types st ON st.type_id = s.type_id
        GROUP BY st.name
        ORDER BY st.name
    `
	averages := []models.TypeAverage{}
	if err := sqlx.SelectContext(ctx, q, &averages, query); err != nil {
		return nil, fmt.Errorf("failed to average readings by type: %w", err)
	}
	return averages, nil
}

func averageByAreaAndType(ctx context.Context, q sqlx.QueryerContext) ([]models.AreaTypeAverage, error) {
	query := `
        SELECT
            l.area_name AS area_name,
            st.name AS type_name,
            AVG(r.reading_value) AS avg_value,
            COUNT(r.reading_id) AS reading_count
        FROM readings r
        JOIN sensors s ON s.sensor_id = r.sensor_id
        JOIN sensor_types st ON st.type_id = s.type_id
        JOIN locations l ON l.location_id = s.location_id
        GROUP BY l.area_name, st.name
        ORDER BY l.area_name NULLS LAST, st.name
    `
	averages := []models.AreaTypeAverage{}
	if err := sqlx.SelectContext(ctx, q, &averages, query); err != nil {
		return nil, fmt.Errorf("failed to average readings by area and type: %w", err)
	}
	return averages, nil
}

func statusDistribution(ctx context.Context, q sqlx.QueryerContext) ([]models.StatusCount, error) {
	query := `
        SELECT status, COUNT(*) AS count
        FROM sensors
        GROUP BY status
        ORDER BY status
    `
	counts := []models.StatusCount{}
	if err := sqlx.SelectContext(ctx, q, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to get status distribution: %w", err)
	}
	return counts, nil
}

func maintenanceStats(ctx context.Context, q sqlx.QueryerContext) ([]models.EventTypeCount, error) {
	query := `
        SELECT event_type, COUNT(*) AS count
        FROM maintenance_events
        GROUP BY event_type
        ORDER BY event_type
    `
	counts := []models.EventTypeCount{}
	if err := sqlx.SelectContext(ctx, q, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to get maintenance stats: %w", err)
	}
	return counts, nil
}

func dashboardTotals(ctx context.Context, q sqlx.QueryerContext) (models.DashboardTotals, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM sensors) AS sensors,
            (SELECT COUNT(*) FROM sensors WHERE status = 'ACTIVE') AS active_sensors,
            (SELECT COUNT(*) FROM readings) AS readings,
            (SELECT COUNT(*) FROM locations) AS locations,
            (SELECT COUNT(*) FROM technicians) AS technicians,
            (SELECT COUNT(*) FROM maintenance_events) AS maintenance_events
    `
	var totals models.DashboardTotals
	if err := sqlx.GetContext(ctx, q, &totals, query); err != nil {
		return totals, fmt.Errorf("failed to get dashboard totals: %w", err)
	}
	return totals, nil
}

// AverageByType returns the mean reading value per sensor type
func (dm *DatabaseManager) AverageByType(ctx context.Context) ([]models.TypeAverage, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return averageByType(ctx, dm.db)
}

// AverageByAreaAndType returns the mean reading value per (area, sensor type)
func (dm *DatabaseManager) AverageByAreaAndType(ctx context.Context) ([]models.AreaTypeAverage, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return averageByAreaAndType(ctx, dm.db)
}

// StatusDistribution returns the number of sensors in each status that occurs at least once
func (dm *DatabaseManager) StatusDistribution(ctx context.Context) ([]models.StatusCount, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return statusDistribution(ctx, dm.db)
}

// DashboardSummary collects every dashboard figure from a single snapshot
func (dm *DatabaseManager) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary

	err := dm.withSnapshot(ctx, func(tx *sqlx.Tx) error {
		var err error
		if summary.DashboardTotals, err = dashboardTotals(ctx, tx); err != nil {
			return err
		}
		if summary.RecentReadings, err = recentReadings(ctx, tx, models.DashboardRecentReadings); err != nil {
			return err
		}
		if summary.MaintenanceStats, err = maintenanceStats(ctx, tx); err != nil {
			return err
		}
		summary.AvgReadings, err = averageByType(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// Reports collects the analytics bundle from a single snapshot
func (dm *DatabaseManager) Reports(ctx context.Context) (*models.Reports, error) {
	var reports models.Reports

	err := dm.withSnapshot(ctx, func(tx *sqlx.Tx) error {
		var err error
		if reports.AreaStats, err = averageByAreaAndType(ctx, tx); err != nil {
			return err
		}
		if reports.TopTechnicians, err = topTechnicians(ctx, tx, models.ReportsTopTechnicians); err != nil {
			return err
		}
		if reports.MaintenanceSummary, err = maintenanceSummary(ctx, tx); err != nil {
			return err
		}
		if reports.StatusDistribution, err = statusDistribution(ctx, tx); err != nil {
			return err
		}
		reports.StatusLogs, err = recentStatusChanges(ctx, tx, models.ReportsRecentStatusChanges)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &reports, nil
}
