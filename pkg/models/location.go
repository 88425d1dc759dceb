package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
	maxElevation = decimal.RequireFromString("9999.99")
)

// Location is a physical place sensors are installed at.
// The (latitude, longitude) pair is unique.
type Location struct {
	ID        int64           `db:"location_id" json:"location_id"`
	AreaName  *string         `db:"area_name" json:"area_name"`
	Latitude  decimal.Decimal `db:"latitude" json:"latitude"`
	Longitude decimal.Decimal `db:"longitude" json:"longitude"`
	Elevation decimal.Decimal `db:"elevation" json:"elevation"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Validate checks coordinate ranges and column limits
func (l *Location) Validate() error {
	if l.AreaName != nil {
		name := strings.TrimSpace(*l.AreaName)
		if len(name) > 100 {
			return fmt.Errorf("%w: area name must be at most 100 characters", ErrValidation)
		}
		l.AreaName = &name
	}
	if l.Latitude.Abs().GreaterThan(maxLatitude) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if l.Longitude.Abs().GreaterThan(maxLongitude) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	if l.Elevation.Abs().GreaterThan(maxElevation) {
		return fmt.Errorf("%w: elevation must be between -9999.99 and 9999.99", ErrValidation)
	}

	// the columns hold six decimal places for coordinates and two for elevation
	l.Latitude = l.Latitude.Round(6)
	l.Longitude = l.Longitude.Round(6)
	l.Elevation = l.Elevation.Round(2)
	return nil
}
