package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sguter90/microclimate/pkg/models"
	"github.com/shopspring/decimal"
)

// ColumnsVersion identifies the column layout below. Bump it when a header changes.
const ColumnsVersion = 1

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// Kind names an exportable table
type Kind string

const (
	KindSensors     Kind = "sensors"
	KindReadings    Kind = "readings"
	KindLocations   Kind = "locations"
	KindTechnicians Kind = "technicians"
	KindMaintenance Kind = "maintenance"
	KindSensorTypes Kind = "sensor-types"
)

// Kinds lists every export kind
var Kinds = []Kind{KindSensors, KindReadings, KindLocations, KindTechnicians, KindMaintenance, KindSensorTypes}

var filenames = map[Kind]string{
	KindSensors:     "sensors_export.csv",
	KindReadings:    "readings_export.csv",
	KindLocations:   "locations_export.csv",
	KindTechnicians: "technicians_export.csv",
	KindMaintenance: "maintenance_export.csv",
	KindSensorTypes: "sensor_types_export.csv",
}

var headers = map[Kind][]string{
	KindSensors:     {"ID", "Model", "Type", "Location", "Latitude", "Longitude", "Install Date", "Status", "Created At"},
	KindReadings:    {"Reading ID", "Sensor ID", "Sensor Model", "Sensor Type", "Location", "Reading Value", "Timestamp"},
	KindLocations:   {"ID", "Area Name", "Latitude", "Longitude", "Elevation (m)", "Created At"},
	KindTechnicians: {"ID", "Name", "Contact Number", "Specialization", "Created At"},
	KindMaintenance: {"ID", "Sensor Model", "Technician", "Event Type", "Event Date", "Notes", "Created At"},
	KindSensorTypes: {"ID", "Name", "Description", "Created At"},
}

// ParseKind validates a kind taken from a URL or flag
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if _, ok := filenames[kind]; !ok {
		return "", fmt.Errorf("%w: unknown export kind %q", models.ErrValidation, s)
	}
	return kind, nil
}

// Filename returns the attachment name of a kind
func (k Kind) Filename() string { return filenames[k] }

// Header returns a copy of the column header of a kind
func (k Kind) Header() []string {
	return append([]string(nil), headers[k]...)
}

// Source provides the full, unfiltered rows of every exportable table
type Source interface {
	ExportSensors(ctx context.Context) ([]models.SensorExportRow, error)
	ExportReadings(ctx context.Context) ([]models.ReadingView, error)
	ExportLocations(ctx context.Context) ([]models.Location, error)
	ExportTechnicians(ctx context.Context) ([]models.Technician, error)
	ExportMaintenanceEvents(ctx context.Context) ([]models.MaintenanceEventView, error)
	ExportSensorTypes(ctx context.Context) ([]models.SensorType, error)
}

// Write loads the rows of kind from src and writes them as CSV to w.
// Rows are fetched before anything is written, so a query error leaves w untouched.
func Write(ctx context.Context, w io.Writer, src Source, kind Kind) (int, error) {
	switch kind {
	case KindSensors:
		rows, err := src.ExportSensors(ctx)
		if err != nil {
			return 0, err
		}
		return len(rows), WriteSensors(w, rows)
	case KindReadings:
		rows, err := src.ExportReadings(ctx)
		if err != nil {
			return 0, err
		}
		return len(rows), WriteReadings(w, rows)
	case KindLocations:
		rows, err := src.ExportLocations(ctx)
		if err != nil {
			return 0, err
		}
		return len(rows), WriteLocations(w, rows)
	case KindTechnicians:
		rows, err := src.ExportTechnicians(ctx)
		if err != nil {
			return 0, err
		}
		return len(rows), WriteTechnicians(w, rows)
	case KindMaintenance:
		rows, err := src.ExportMaintenanceEvents(ctx)
		if err != nil {
			return 0, err
		}
		return len(rows), WriteMaintenanceEvents(w, rows)
	case KindSensorTypes:
		rows, err := src.ExportSensorTypes(ctx)
		if err != nil {
			return 0, err
		}
		return len(rows), WriteSensorTypes(w, rows)
	}
	return 0, fmt.Errorf("%w: unknown export kind %q", models.ErrValidation, kind)
}

// writeAll writes the header of kind followed by records
func writeAll(w io.Writer, kind Kind, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers[kind]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// WriteSensors writes the sensors export
func WriteSensors(w io.Writer, rows []models.SensorExportRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatID(r.ID),
			r.Model,
			r.TypeName,
			optional(r.LocationName),
			formatDecimal(r.Latitude),
			formatDecimal(r.Longitude),
			r.InstallDate.Format(dateLayout),
			string(r.Status),
			formatTime(r.CreatedAt),
		})
	}
	return writeAll(w, KindSensors, records)
}

// WriteReadings writes the readings export
func WriteReadings(w io.Writer, rows []models.ReadingView) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatID(r.ID),
			formatID(r.SensorID),
			r.SensorModel,
			r.TypeName,
			optional(r.LocationName),
			formatDecimal(r.Value),
			formatTime(r.Timestamp),
		})
	}
	return writeAll(w, KindReadings, records)
}

// WriteLocations writes the locations export
func WriteLocations(w io.Writer, rows []models.Location) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatID(r.ID),
			optional(r.AreaName),
			formatDecimal(r.Latitude),
			formatDecimal(r.Longitude),
			formatDecimal(r.Elevation),
			formatTime(r.CreatedAt),
		})
	}
	return writeAll(w, KindLocations, records)
}

// WriteTechnicians writes the technicians export
func WriteTechnicians(w io.Writer, rows []models.Technician) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatID(r.ID),
			r.Name,
			optional(r.ContactNo),
			optional(r.Specialization),
			formatTime(r.CreatedAt),
		})
	}
	return writeAll(w, KindTechnicians, records)
}

// WriteMaintenanceEvents writes the maintenance export
func WriteMaintenanceEvents(w io.Writer, rows []models.MaintenanceEventView) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatID(r.ID),
			r.SensorModel,
			r.TechnicianName,
			string(r.EventType),
			formatTime(r.EventDate),
			optional(r.Notes),
			formatTime(r.CreatedAt),
		})
	}
	return writeAll(w, KindMaintenance, records)
}

// WriteSensorTypes writes the sensor types export
func WriteSensorTypes(w io.Writer, rows []models.SensorType) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatID(r.ID),
			r.Name,
			optional(r.Description),
			formatTime(r.CreatedAt),
		})
	}
	return writeAll(w, KindSensorTypes, records)
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// formatDecimal renders the shortest float text of d
func formatDecimal(d decimal.Decimal) string {
	return strconv.FormatFloat(d.InexactFloat64(), 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
