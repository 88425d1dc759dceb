package main

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/sguter90/microclimate/pkg/export"
)

// exportHandler streams the full table of a kind as a CSV attachment.
// When an archive is configured a copy is uploaded as well; upload
// failures are logged and never fail the download.
func (rm *RouteManager) exportHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := export.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	var buf bytes.Buffer
	count, err := export.Write(r.Context(), &buf, rm.dbManager, kind)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	logger := zerolog.Ctx(r.Context())
	logger.Info().Str("kind", string(kind)).Int("rows", count).Msg("CSV export generated")

	if rm.archiver != nil {
		key, err := rm.archiver.Upload(r.Context(), string(kind), kind.Filename(), buf.Bytes())
		if err != nil {
			logger.Error().Err(err).Str("kind", string(kind)).Msg("Failed to archive export")
		} else {
			logger.Info().Str("key", key).Msg("Export archived")
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+kind.Filename())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// exportArchiveHandler lists the archived copies of a kind
func (rm *RouteManager) exportArchiveHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := export.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	if rm.archiver == nil {
		writeError(w, http.StatusNotFound, "Export archive is not configured")
		return
	}

	keys, err := rm.archiver.List(r.Context(), string(kind))
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	if keys == nil {
		keys = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind": kind,
		"keys": keys,
	})
}
