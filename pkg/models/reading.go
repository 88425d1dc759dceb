package models

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ReadingsPageSize is the fixed page size of the reading listing
const ReadingsPageSize = 50

// MaxReadingsPage is the largest page whose offset still fits in an int
const MaxReadingsPage = math.MaxInt / ReadingsPageSize

// DateTimeLayout is the wire format of reading timestamps and event dates in forms
const DateTimeLayout = "2006-01-02T15:04"

var maxReadingValue = decimal.RequireFromString("999999.9999")

// Reading is a single recorded measurement of a sensor
type Reading struct {
	ID        int64           `db:"reading_id" json:"reading_id"`
	SensorID  int64           `db:"sensor_id" json:"sensor_id"`
	Value     decimal.Decimal `db:"reading_value" json:"reading_value"`
	Timestamp time.Time       `db:"reading_timestamp" json:"reading_timestamp"`
}

// Validate checks the reference and the NUMERIC(10,4) range of the value
func (r *Reading) Validate() error {
	if r.SensorID <= 0 {
		return fmt.Errorf("%w: sensor is required", ErrValidation)
	}
	if r.Value.Abs().GreaterThan(maxReadingValue) {
		return fmt.Errorf("%w: reading value out of range", ErrValidation)
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("%w: reading timestamp is required", ErrValidation)
	}
	r.Value = r.Value.Round(4)
	return nil
}

// ReadingView is a reading joined with its sensor, the sensor's type and location
type ReadingView struct {
	Reading
	SensorModel  string       `db:"sensor_model" json:"sensor_model"`
	SensorStatus SensorStatus `db:"sensor_status" json:"sensor_status"`
	TypeName     string       `db:"type_name" json:"sensor_type"`
	LocationName *string      `db:"location_name" json:"location_name"`
}

// ReadingFilter holds the parameters of the paginated reading listing
type ReadingFilter struct {
	SensorID int64
	Page     int
}

// NormalizedPage returns the requested page, clamped to 1..MaxReadingsPage
func (f ReadingFilter) NormalizedPage() int {
	if f.Page < 1 {
		return 1
	}
	if f.Page > MaxReadingsPage {
		return MaxReadingsPage
	}
	return f.Page
}

// Offset returns the row offset of the requested page
func (f ReadingFilter) Offset() int {
	return (f.NormalizedPage() - 1) * ReadingsPageSize
}

// ReadingPage is one page of the joined reading listing
type ReadingPage struct {
	Items      []ReadingView `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
}

// NewReadingPage builds the page metadata for total matching rows
func NewReadingPage(items []ReadingView, total, page int) ReadingPage {
	if items == nil {
		items = []ReadingView{}
	}

	totalPages := (total + ReadingsPageSize - 1) / ReadingsPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return ReadingPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    ReadingsPageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
