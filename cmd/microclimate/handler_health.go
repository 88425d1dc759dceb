package main

import (
	"context"
	"net/http"
	"time"
)

// healthHandler returns server and database health
func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, dbStatus, code := "ok", "ok", http.StatusOK
	if err := rm.dbManager.Ping(ctx); err != nil {
		status, dbStatus, code = "degraded", "unreachable", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
