package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/models"
)

const locationNotFound = "Location not found"

// listLocationsHandler returns locations ordered by area name
func (rm *RouteManager) listLocationsHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	locations, err := rm.dbManager.ListLocations(r.Context(), search)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
		"search":    search,
	})
}

func (rm *RouteManager) locationFormHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"location": nil}
	if hasPathID(r) {
		id, err := pathID(r)
		if err != nil {
			writeStoreError(w, r, err, locationNotFound)
			return
		}
		location, err := rm.dbManager.GetLocation(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, locationNotFound)
			return
		}
		data["location"] = location
	}
	writeJSON(w, http.StatusOK, data)
}

func parseLocationForm(r *http.Request) (*models.Location, error) {
	form, err := newFormReader(r)
	if err != nil {
		return nil, err
	}
	location := &models.Location{
		AreaName:  form.OptionalString("area_name"),
		Latitude:  form.Decimal("latitude"),
		Longitude: form.Decimal("longitude"),
		Elevation: form.OptionalDecimal("elevation"),
	}
	if err := form.Err(); err != nil {
		return nil, err
	}
	return location, location.Validate()
}

func (rm *RouteManager) createLocationHandler(w http.ResponseWriter, r *http.Request) {
	location, err := parseLocationForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	if err := rm.dbManager.CreateLocation(r.Context(), location); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("location_id", location.ID).Msg("Location created")
	redirectToList(w, r, "/locations")
}

func (rm *RouteManager) updateLocationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, locationNotFound)
		return
	}
	location, err := parseLocationForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	location.ID = id

	if err := rm.dbManager.UpdateLocation(r.Context(), location); err != nil {
		writeStoreError(w, r, err, locationNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("location_id", id).Msg("Location updated")
	redirectToList(w, r, "/locations")
}

func (rm *RouteManager) deleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, locationNotFound)
		return
	}

	if err := rm.dbManager.DeleteLocation(r.Context(), id); err != nil {
		writeStoreError(w, r, err, locationNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("location_id", id).Msg("Location deleted")
	redirectToList(w, r, "/locations")
}
