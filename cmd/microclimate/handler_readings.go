package main

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/models"
)

const readingNotFound = "Reading not found"

// listReadingsHandler returns one page of readings, newest first
// Query params:
//   - sensor: sensor id
//   - page: 1-based page number, 50 readings per page
func (rm *RouteManager) listReadingsHandler(w http.ResponseWriter, r *http.Request) {
	filter := models.ReadingFilter{SensorID: queryID(r, "sensor")}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = page
	}

	page, err := rm.dbManager.ListReadings(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"readings": page,
		"sensor":   filter.SensorID,
	})
}

func (rm *RouteManager) readingFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := map[string]interface{}{"reading": nil}

	if hasPathID(r) {
		id, err := pathID(r)
		if err != nil {
			writeStoreError(w, r, err, readingNotFound)
			return
		}
		reading, err := rm.dbManager.GetReading(ctx, id)
		if err != nil {
			writeStoreError(w, r, err, readingNotFound)
			return
		}
		data["reading"] = reading
	}

	sensors, err := rm.dbManager.ListSensors(ctx, readingFormSensorFilter(r))
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	data["sensors"] = sensors

	writeJSON(w, http.StatusOK, data)
}

// readingFormSensorFilter offers only active sensors for a new reading;
// editing keeps every sensor selectable so the current one stays listed
func readingFormSensorFilter(r *http.Request) models.SensorFilter {
	filter := models.SensorFilter{OrderByModel: true}
	if !hasPathID(r) {
		filter.Status = string(models.SensorStatusActive)
	}
	return filter
}

func parseReadingForm(r *http.Request) (*models.Reading, error) {
	form, err := newFormReader(r)
	if err != nil {
		return nil, err
	}
	reading := &models.Reading{
		SensorID:  form.ID("sensor_id"),
		Value:     form.Decimal("reading_value"),
		Timestamp: form.DateTime("reading_timestamp"),
	}
	if err := form.Err(); err != nil {
		return nil, err
	}
	return reading, reading.Validate()
}

func (rm *RouteManager) createReadingHandler(w http.ResponseWriter, r *http.Request) {
	reading, err := parseReadingForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	if err := rm.dbManager.CreateReading(r.Context(), reading); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("reading_id", reading.ID).Int64("sensor_id", reading.SensorID).Msg("Reading recorded")
	redirectToList(w, r, "/readings")
}

func (rm *RouteManager) updateReadingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, readingNotFound)
		return
	}
	reading, err := parseReadingForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	reading.ID = id

	if err := rm.dbManager.UpdateReading(r.Context(), reading); err != nil {
		writeStoreError(w, r, err, readingNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("reading_id", id).Msg("Reading updated")
	redirectToList(w, r, "/readings")
}

func (rm *RouteManager) deleteReadingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, readingNotFound)
		return
	}

	if err := rm.dbManager.DeleteReading(r.Context(), id); err != nil {
		writeStoreError(w, r, err, readingNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("reading_id", id).Msg("Reading deleted")
	redirectToList(w, r, "/readings")
}
