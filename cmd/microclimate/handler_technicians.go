package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/models"
)

const technicianNotFound = "Technician not found"

// listTechniciansHandler returns technicians with their maintenance counts
func (rm *RouteManager) listTechniciansHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	technicians, err := rm.dbManager.ListTechnicians(r.Context(), search)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"technicians": technicians,
		"search":      search,
	})
}

func (rm *RouteManager) technicianFormHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"technician": nil}
	if hasPathID(r) {
		id, err := pathID(r)
		if err != nil {
			writeStoreError(w, r, err, technicianNotFound)
			return
		}
		technician, err := rm.dbManager.GetTechnician(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, technicianNotFound)
			return
		}
		data["technician"] = technician
	}
	writeJSON(w, http.StatusOK, data)
}

func parseTechnicianForm(r *http.Request) (*models.Technician, error) {
	form, err := newFormReader(r)
	if err != nil {
		return nil, err
	}
	technician := &models.Technician{
		Name:           form.String("name"),
		ContactNo:      form.OptionalString("contact_no"),
		Specialization: form.OptionalString("specialization"),
	}
	if err := form.Err(); err != nil {
		return nil, err
	}
	return technician, technician.Validate()
}

func (rm *RouteManager) createTechnicianHandler(w http.ResponseWriter, r *http.Request) {
	technician, err := parseTechnicianForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	if err := rm.dbManager.CreateTechnician(r.Context(), technician); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("tech_id", technician.ID).Str("name", technician.Name).Msg("Technician created")
	redirectToList(w, r, "/technicians")
}

func (rm *RouteManager) updateTechnicianHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, technicianNotFound)
		return
	}
	technician, err := parseTechnicianForm(r)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	technician.ID = id

	if err := rm.dbManager.UpdateTechnician(r.Context(), technician); err != nil {
		writeStoreError(w, r, err, technicianNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("tech_id", id).Msg("Technician updated")
	redirectToList(w, r, "/technicians")
}

func (rm *RouteManager) deleteTechnicianHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, technicianNotFound)
		return
	}

	if err := rm.dbManager.DeleteTechnician(r.Context(), id); err != nil {
		writeStoreError(w, r, err, technicianNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("tech_id", id).Msg("Technician deleted")
	redirectToList(w, r, "/technicians")
}
