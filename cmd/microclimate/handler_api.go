package main

import "net/http"

func (rm *RouteManager) apiSensorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}

	sensor, err := rm.dbManager.GetSensor(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, sensorNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sensor)
}

func (rm *RouteManager) apiLatestReadingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeStoreError(w, r, err, "No readings found")
		return
	}

	reading, err := rm.dbManager.LatestReading(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "No readings found")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}
