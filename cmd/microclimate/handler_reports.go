package main

import "net/http"

// dashboardHandler returns the headline counters, recent readings and averages
func (rm *RouteManager) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := rm.dbManager.DashboardSummary(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rm *RouteManager) reportsHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := rm.dbManager.Reports(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
