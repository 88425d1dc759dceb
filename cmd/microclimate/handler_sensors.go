package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/models"
)

const sensorNotFound = "Sensor not found"

// listSensorsHandler returns sensors with flexible filtering
// Query params:
//   - search: case-insensitive substring of the sensor model
//   - status: ACTIVE, INACTIVE or MAINTENANCE
//   - type: sensor type id
//   - location: location id
func (rm *RouteManager) listSensorsHandler(w http.ResponseWriter, r *http.Request) {
	filter := parseSensorFilter(r)

	sensors, err := rm.dbManager.ListSensors(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sensors":  sensors,
		"search":   filter.Search,
		"status":   filter.Status,
		"type":     filter.TypeID,
		"location": filter.LocationID,
	})
}

// parseSensorFilter extracts the listing filters from the query string
func parseSensorFilter(r *http.Request) models.SensorFilter {
	q := r.URL.Query()
	return models.SensorFilter{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		TypeID:     queryID(r, "type"),
		LocationID: queryID(r, "location"),
	}
}

// sensorFormHandler returns the data of the create or edit form: the choices
// for type, location and status, plus the sensor and its status history when editing
func (rm *RouteManager) sensorFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := map[string]interface{}{
		"sensor":   nil,
		"statuses": models.SensorStatuses,
	}

	if hasPathID(r) {
		id, err := pathID(r)
		if err != nil {
			writeStoreError(w, r, err, sensorNotFound)
			return
		}
		sensor, err := rm.dbManager.GetSensor(ctx, id)
		if err != nil {
			writeStoreError(w, r, err, sensorNotFound)
			return
		}
		history, err := rm.dbManager.SensorStatusHistory(ctx, id)
		if err != nil {
			writeStoreError(w, r, err, "")
			return
		}
		data["sensor"] = sensor
		data["status_history"] = history
	}

	types, err := rm.dbManager.ListSensorTypes(ctx, "")
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	locations, err := rm.dbManager.ListLocations(ctx, "")
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	data["sensor_types"] = types
	data["locations"] = locations

	writeJSON(w, http.StatusOK, data)
}

func parseSensorForm(r *http.Request) (*models.Sensor, error) {
	form, err := newFormReader(r)
	if err != nil {
		return nil, err
	}
	sensor := &models.Sensor{
		Model:       form.String("model"),
		InstallDate: form.Date("install_date"),
		Status:      models.SensorStatus(form.String("status")),
		TypeID:      form.ID("type_id"),
		LocationID:  form.ID("location_id"),
	}
	if err := form.Err(); err != nil {
		return nil, err
	}
	return sensor, sensor.Validate()
}

func (rm *RouteManager) createSensorHandler(w http.ResponseWriter, r *http.Request) {
	sensor, err := parseSensorForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	if err := rm.dbManager.CreateSensor(r.Context(), sensor); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("sensor_id", sensor.ID).Str("model", sensor.Model).Msg("Sensor created")
	redirectToList(w, r, "/sensors")
}

func (rm *RouteManager) updateSensorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}
	sensor, err := parseSensorForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	sensor.ID = id

	if err := rm.dbManager.UpdateSensor(r.Context(), sensor); err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("sensor_id", id).Msg("Sensor updated")
	redirectToList(w, r, "/sensors")
}

// updateSensorStatusHandler changes only the status; the status log is written by the database
func (rm *RouteManager) updateSensorStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}
	form, err := newFormReader(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	status := models.SensorStatus(form.String("status"))
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status "+string(status))
		return
	}

	if err := rm.dbManager.UpdateSensorStatus(r.Context(), id, status); err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("sensor_id", id).Str("status", string(status)).Msg("Sensor status changed")
	redirectToList(w, r, "/sensors")
}

// deleteSensorHandler removes a sensor together with its readings and maintenance events
func (rm *RouteManager) deleteSensorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	result, err := rm.dbManager.DeleteSensor(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Int64("sensor_id", id).
		Int64("readings", result.Readings).
		Int64("maintenance_events", result.MaintenanceEvents).
		Msg("Sensor deleted")
	redirectToList(w, r, "/sensors")
}

// sensorReadingsHandler returns the reading history of one sensor, newest first
func (rm *RouteManager) sensorReadingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	readings, err := rm.dbManager.GetSensorReadings(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sensor_id": id,
		"readings":  readings,
	})
}
