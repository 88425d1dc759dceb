package api

import (
	"context"
	"fmt"

	"github.com/sguter90/microclimate/pkg/models"
)

// GetSensor retrieves a sensor with its type and location names
func (c *Client) GetSensor(ctx context.Context, id int64) (*models.SensorView, error) {
	var sensor models.SensorView
	if err := c.getJSON(ctx, fmt.Sprintf("/api/sensors/%d", id), &sensor); err != nil {
		return nil, err
	}
	return &sensor, nil
}

// GetLatestReading retrieves the newest reading of a sensor.
// A sensor without readings yields ErrNotFound.
func (c *Client) GetLatestReading(ctx context.Context, sensorID int64) (*models.ReadingView, error) {
	var reading models.ReadingView
	if err := c.getJSON(ctx, fmt.Sprintf("/api/sensors/%d/latest-reading", sensorID), &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}
