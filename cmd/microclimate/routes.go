package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sguter90/microclimate/pkg/database"
)

// exportArchiver stores a copy of every CSV export
type exportArchiver interface {
	Upload(ctx context.Context, kind, filename string, data []byte) (string, error)
	List(ctx context.Context, kind string) ([]string, error)
}

// RouteManager handles all routes
type RouteManager struct {
	dbManager      *database.DatabaseManager
	archiver       exportArchiver
	jwtSecret      []byte
	allowedOrigins []string
	Router         *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(dbManager *database.DatabaseManager, jwtSecret string, allowedOrigins []string) *RouteManager {
	return &RouteManager{
		dbManager:      dbManager,
		jwtSecret:      []byte(jwtSecret),
		allowedOrigins: allowedOrigins,
		Router:         mux.NewRouter(),
	}
}

// Setup configures all routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.requestLogMiddleware)
	r.Use(rm.recoverMiddleware)
	r.Use(rm.corsMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public endpoints
	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	r.HandleFunc("/login", rm.loginPageHandler).Methods("GET")
	r.HandleFunc("/login", rm.loginHandler).Methods("POST")
	r.HandleFunc("/signup", rm.signupPageHandler).Methods("GET")
	r.HandleFunc("/signup", rm.signupHandler).Methods("POST")
	r.HandleFunc("/logout", rm.logoutHandler).Methods("GET", "POST")

	// Protected endpoints (auth required)
	protected := r.PathPrefix("").Subrouter()
	protected.Use(rm.authMiddleware)

	protected.HandleFunc("/", rm.dashboardHandler).Methods("GET")
	protected.HandleFunc("/me", rm.meHandler).Methods("GET")
	protected.HandleFunc("/reports", rm.reportsHandler).Methods("GET")

	rm.setupSensorTypeRoutes(protected)
	rm.setupLocationRoutes(protected)
	rm.setupSensorRoutes(protected)
	rm.setupReadingRoutes(protected)
	rm.setupTechnicianRoutes(protected)
	rm.setupMaintenanceRoutes(protected)

	// JSON API
	protected.HandleFunc("/api/sensors/{id:[0-9]+}", rm.apiSensorHandler).Methods("GET")
	protected.HandleFunc("/api/sensors/{id:[0-9]+}/latest-reading", rm.apiLatestReadingHandler).Methods("GET")

	// CSV exports
	protected.HandleFunc("/export/{kind}/csv", rm.exportHandler).Methods("GET")
	protected.HandleFunc("/export/{kind}/archive", rm.exportArchiveHandler).Methods("GET")
}

func (rm *RouteManager) setupSensorTypeRoutes(r *mux.Router) {
	r.HandleFunc("/sensor-types", rm.listSensorTypesHandler).Methods("GET")
	r.HandleFunc("/sensor-types/create", rm.sensorTypeFormHandler).Methods("GET")
	r.HandleFunc("/sensor-types/create", rm.createSensorTypeHandler).Methods("POST")
	r.HandleFunc("/sensor-types/{id:[0-9]+}/edit", rm.sensorTypeFormHandler).Methods("GET")
	r.HandleFunc("/sensor-types/{id:[0-9]+}/edit", rm.updateSensorTypeHandler).Methods("POST")
	r.HandleFunc("/sensor-types/{id:[0-9]+}/delete", rm.deleteSensorTypeHandler).Methods("POST")
}

func (rm *RouteManager) setupLocationRoutes(r *mux.Router) {
	r.HandleFunc("/locations", rm.listLocationsHandler).Methods("GET")
	r.HandleFunc("/locations/create", rm.locationFormHandler).Methods("GET")
	r.HandleFunc("/locations/create", rm.createLocationHandler).Methods("POST")
	r.HandleFunc("/locations/{id:[0-9]+}/edit", rm.locationFormHandler).Methods("GET")
	r.HandleFunc("/locations/{id:[0-9]+}/edit", rm.updateLocationHandler).Methods("POST")
	r.HandleFunc("/locations/{id:[0-9]+}/delete", rm.deleteLocationHandler).Methods("POST")
}

func (rm *RouteManager) setupSensorRoutes(r *mux.Router) {
	r.HandleFunc("/sensors", rm.listSensorsHandler).Methods("GET")
	r.HandleFunc("/sensors/create", rm.sensorFormHandler).Methods("GET")
	r.HandleFunc("/sensors/create", rm.createSensorHandler).Methods("POST")
	r.HandleFunc("/sensors/{id:[0-9]+}/edit", rm.sensorFormHandler).Methods("GET")
	r.HandleFunc("/sensors/{id:[0-9]+}/edit", rm.updateSensorHandler).Methods("POST")
	r.HandleFunc("/sensors/{id:[0-9]+}/status", rm.updateSensorStatusHandler).Methods("POST")
	r.HandleFunc("/sensors/{id:[0-9]+}/delete", rm.deleteSensorHandler).Methods("POST")
	r.HandleFunc("/sensors/{id:[0-9]+}/readings", rm.sensorReadingsHandler).Methods("GET")
}

func (rm *RouteManager) setupReadingRoutes(r *mux.Router) {
	r.HandleFunc("/readings", rm.listReadingsHandler).Methods("GET")
	r.HandleFunc("/readings/create", rm.readingFormHandler).Methods("GET")
	r.HandleFunc("/readings/create", rm.createReadingHandler).Methods("POST")
	r.HandleFunc("/readings/{id:[0-9]+}/edit", rm.readingFormHandler).Methods("GET")
	r.HandleFunc("/readings/{id:[0-9]+}/edit", rm.updateReadingHandler).Methods("POST")
	r.HandleFunc("/readings/{id:[0-9]+}/delete", rm.deleteReadingHandler).Methods("POST")
}

func (rm *RouteManager) setupTechnicianRoutes(r *mux.Router) {
	r.HandleFunc("/technicians", rm.listTechniciansHandler).Methods("GET")
	r.HandleFunc("/technicians/create", rm.technicianFormHandler).Methods("GET")
	r.HandleFunc("/technicians/create", rm.createTechnicianHandler).Methods("POST")
	r.HandleFunc("/technicians/{id:[0-9]+}/edit", rm.technicianFormHandler).Methods("GET")
	r.HandleFunc("/technicians/{id:[0-9]+}/edit", rm.updateTechnicianHandler).Methods("POST")
	r.HandleFunc("/technicians/{id:[0-9]+}/delete", rm.deleteTechnicianHandler).Methods("POST")
}

func (rm *RouteManager) setupMaintenanceRoutes(r *mux.Router) {
	r.HandleFunc("/maintenance", rm.listMaintenanceHandler).Methods("GET")
	r.HandleFunc("/maintenance/create", rm.maintenanceFormHandler).Methods("GET")
	r.HandleFunc("/maintenance/create", rm.createMaintenanceHandler).Methods("POST")
	r.HandleFunc("/maintenance/{id:[0-9]+}/edit", rm.maintenanceFormHandler).Methods("GET")
	r.HandleFunc("/maintenance/{id:[0-9]+}/edit", rm.updateMaintenanceHandler).Methods("POST")
	r.HandleFunc("/maintenance/{id:[0-9]+}/delete", rm.deleteMaintenanceHandler).Methods("POST")
}
