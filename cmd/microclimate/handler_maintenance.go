package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/models"
)

const maintenanceNotFound = "Maintenance event not found"

// listMaintenanceHandler returns maintenance events, newest first
// Query params:
//   - sensor: sensor id
//   - tech: technician id
//   - event_type: CALIBRATION, REPAIR or REPLACEMENT
func (rm *RouteManager) listMaintenanceHandler(w http.ResponseWriter, r *http.Request) {
	filter := models.MaintenanceFilter{
		SensorID:  queryID(r, "sensor"),
		TechID:    queryID(r, "tech"),
		EventType: r.URL.Query().Get("event_type"),
	}

	events, err := rm.dbManager.ListMaintenanceEvents(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events":     events,
		"sensor":     filter.SensorID,
		"tech":       filter.TechID,
		"event_type": filter.EventType,
	})
}

func (rm *RouteManager) maintenanceFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := map[string]interface{}{
		"event":       nil,
		"event_types": models.MaintenanceEventTypes,
	}

	if hasPathID(r) {
		id, err := pathID(r)
		if err != nil {
			writeStoreError(w, r, err, maintenanceNotFound)
			return
		}
		event, err := rm.dbManager.GetMaintenanceEvent(ctx, id)
		if err != nil {
			writeStoreError(w, r, err, maintenanceNotFound)
			return
		}
		data["event"] = event
	}

	sensors, err := rm.dbManager.ListSensors(ctx, models.SensorFilter{OrderByModel: true})
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	technicians, err := rm.dbManager.ListTechnicians(ctx, "")
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	data["sensors"] = sensors
	data["technicians"] = technicians

	writeJSON(w, http.StatusOK, data)
}

func parseMaintenanceForm(r *http.Request) (*models.MaintenanceEvent, error) {
	form, err := newFormReader(r)
	if err != nil {
		return nil, err
	}
	event := &models.MaintenanceEvent{
		SensorID:  form.ID("sensor_id"),
		TechID:    form.ID("tech_id"),
		EventType: models.MaintenanceEventType(form.String("event_type")),
		EventDate: form.DateTime("event_date"),
		Notes:     form.OptionalString("notes"),
	}
	if err := form.Err(); err != nil {
		return nil, err
	}
	return event, event.Validate()
}

func (rm *RouteManager) createMaintenanceHandler(w http.ResponseWriter, r *http.Request) {
	event, err := parseMaintenanceForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	if err := rm.dbManager.CreateMaintenanceEvent(r.Context(), event); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Int64("maintenance_id", event.ID).
		Int64("sensor_id", event.SensorID).
		Str("event_type", string(event.EventType)).
		Msg("Maintenance event recorded")
	redirectToList(w, r, "/maintenance")
}

func (rm *RouteManager) updateMaintenanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, maintenanceNotFound)
		return
	}
	event, err := parseMaintenanceForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	event.ID = id

	if err := rm.dbManager.UpdateMaintenanceEvent(r.Context(), event); err != nil {
		writeStoreError(w, r, err, maintenanceNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("maintenance_id", id).Msg("Maintenance event updated")
	redirectToList(w, r, "/maintenance")
}

func (rm *RouteManager) deleteMaintenanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, maintenanceNotFound)
		return
	}

	if err := rm.dbManager.DeleteMaintenanceEvent(r.Context(), id); err != nil {
		writeStoreError(w, r, err, maintenanceNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("maintenance_id", id).Msg("Maintenance event deleted")
	redirectToList(w, r, "/maintenance")
}
