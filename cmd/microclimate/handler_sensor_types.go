package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/models"
)

const sensorTypeNotFound = "Sensor type not found"

// listSensorTypesHandler returns sensor types ordered by name
// Query params:
//   - search: case-insensitive substring of name or description
func (rm *RouteManager) listSensorTypesHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	types, err := rm.dbManager.ListSensorTypes(r.Context(), search)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sensor_types": types,
		"search":       search,
	})
}

// sensorTypeFormHandler returns the data of the create or edit form
func (rm *RouteManager) sensorTypeFormHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"sensor_type": nil}
	if hasPathID(r) {
		id, err := pathID(r)
		if err != nil {
			writeStoreError(w, r, err, sensorTypeNotFound)
			return
		}
		st, err := rm.dbManager.GetSensorType(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, sensorTypeNotFound)
			return
		}
		data["sensor_type"] = st
	}
	writeJSON(w, http.StatusOK, data)
}

func parseSensorTypeForm(r *http.Request) (*models.SensorType, error) {
	form, err := newFormReader(r)
	if err != nil {
		return nil, err
	}
	st := &models.SensorType{
		Name:        form.String("name"),
		Description: form.OptionalString("description"),
	}
	if err := form.Err(); err != nil {
		return nil, err
	}
	return st, st.Validate()
}

func (rm *RouteManager) createSensorTypeHandler(w http.ResponseWriter, r *http.Request) {
	st, err := parseSensorTypeForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	if err := rm.dbManager.CreateSensorType(r.Context(), st); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("type_id", st.ID).Str("name", st.Name).Msg("Sensor type created")
	redirectToList(w, r, "/sensor-types")
}

func (rm *RouteManager) updateSensorTypeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorTypeNotFound)
		return
	}
	st, err := parseSensorTypeForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	st.ID = id

	if err := rm.dbManager.UpdateSensorType(r.Context(), st); err != nil {
		writeStoreError(w, r, err, sensorTypeNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("type_id", id).Msg("Sensor type updated")
	redirectToList(w, r, "/sensor-types")
}

func (rm *RouteManager) deleteSensorTypeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorTypeNotFound)
		return
	}

	if err := rm.dbManager.DeleteSensorType(r.Context(), id); err != nil {
		writeStoreError(w, r, err, sensorTypeNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("type_id", id).Msg("Sensor type deleted")
	redirectToList(w, r, "/sensor-types")
}
