package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/database"
	"github.com/sguter90/microclimate/pkg/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError translates a store or validation error into a response.
// notFound is the message used when the entity does not exist.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var constraintErr *database.ConstraintError

	switch {
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.As(err, &constraintErr):
		writeError(w, http.StatusConflict, constraintErr.Message)
	case errors.Is(err, database.ErrConstraint):
		writeError(w, http.StatusConflict, "operation violates a data constraint")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// redirectToList finishes a successful mutation
func redirectToList(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
