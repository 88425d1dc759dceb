package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestSensor_Validate(t *testing.T) {
	installed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		sensor      Sensor
		expectError bool
		errorMsg    string
	}{
		{
			name:   "Valid sensor",
			sensor: Sensor{Model: "DHT22", InstallDate: installed, Status: SensorStatusActive, TypeID: 1, LocationID: 2},
		},
		{
			name:   "Status defaults to active",
			sensor: Sensor{Model: "DHT22", InstallDate: installed, TypeID: 1, LocationID: 2},
		},
		{
			name:        "Blank model",
			sensor:      Sensor{Model: "   ", InstallDate: installed, TypeID: 1, LocationID: 2},
			expectError: true,
			errorMsg:    "model is required",
		},
		{
			name:        "Unknown status",
			sensor:      Sensor{Model: "DHT22", InstallDate: installed, Status: "BROKEN", TypeID: 1, LocationID: 2},
			expectError: true,
			errorMsg:    "invalid status",
		},
		{
			name:        "Missing install date",
			sensor:      Sensor{Model: "DHT22", TypeID: 1, LocationID: 2},
			expectError: true,
			errorMsg:    "install date is required",
		},
		{
			name:        "Missing type",
			sensor:      Sensor{Model: "DHT22", InstallDate: installed, LocationID: 2},
			expectError: true,
			errorMsg:    "sensor type is required",
		},
		{
			name:        "Missing location",
			sensor:      Sensor{Model: "DHT22", InstallDate: installed, TypeID: 1},
			expectError: true,
			errorMsg:    "location is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sensor.Validate()
			checkValidation(t, err, tc.expectError, tc.errorMsg)
		})
	}
}

func TestSensor_ValidateDefaultsStatus(t *testing.T) {
	s := Sensor{Model: "DHT22", InstallDate: time.Now(), TypeID: 1, LocationID: 1}
	if err := s.Validate(); err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if s.Status != SensorStatusActive {
		t.Errorf("Expected status %s, got %s", SensorStatusActive, s.Status)
	}
}

func TestLocation_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		location    Location
		expectError bool
		errorMsg    string
	}{
		{
			name: "Valid location",
			location: Location{
				AreaName:  strPtr("North Field"),
				Latitude:  decimal.RequireFromString("12.971599"),
				Longitude: decimal.RequireFromString("77.594566"),
				Elevation: decimal.RequireFromString("920.5"),
			},
		},
		{
			name:     "Origin without name",
			location: Location{},
		},
		{
			name:        "Latitude out of range",
			location:    Location{Latitude: decimal.RequireFromString("90.5")},
			expectError: true,
			errorMsg:    "latitude",
		},
		{
			name:        "Longitude out of range",
			location:    Location{Longitude: decimal.RequireFromString("-180.000001")},
			expectError: true,
			errorMsg:    "longitude",
		},
		{
			name:        "Elevation out of range",
			location:    Location{Elevation: decimal.RequireFromString("10000")},
			expectError: true,
			errorMsg:    "elevation",
		},
		{
			name:        "Area name too long",
			location:    Location{AreaName: strPtr(strings.Repeat("a", 101))},
			expectError: true,
			errorMsg:    "area name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.location.Validate()
			checkValidation(t, err, tc.expectError, tc.errorMsg)
		})
	}
}

func TestMaintenanceEvent_Validate(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name        string
		event       MaintenanceEvent
		expectError bool
		errorMsg    string
	}{
		{
			name:  "Valid event",
			event: MaintenanceEvent{SensorID: 1, TechID: 1, EventType: EventTypeRepair, EventDate: now},
		},
		{
			name:        "Unknown event type",
			event:       MaintenanceEvent{SensorID: 1, TechID: 1, EventType: "CLEANING", EventDate: now},
			expectError: true,
			errorMsg:    "invalid event type",
		},
		{
			name:        "Missing technician",
			event:       MaintenanceEvent{SensorID: 1, EventType: EventTypeRepair, EventDate: now},
			expectError: true,
			errorMsg:    "technician is required",
		},
		{
			name:        "Missing date",
			event:       MaintenanceEvent{SensorID: 1, TechID: 1, EventType: EventTypeCalibration},
			expectError: true,
			errorMsg:    "event date is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			checkValidation(t, err, tc.expectError, tc.errorMsg)
		})
	}
}

func TestTechnicianAndSensorType_Validate(t *testing.T) {
	if err := (&Technician{Name: "Asha"}).Validate(); err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
	checkValidation(t, (&Technician{Name: ""}).Validate(), true, "name is required")
	checkValidation(t, (&Technician{Name: "Asha", ContactNo: strPtr("+91 98450 00000 00")}).Validate(), true, "contact number")

	if err := (&SensorType{Name: "Humidity"}).Validate(); err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
	checkValidation(t, (&SensorType{Name: " "}).Validate(), true, "name is required")
}

func TestSignupRequest_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		req         SignupRequest
		expectError bool
		errorMsg    string
	}{
		{
			name: "Valid signup",
			req:  SignupRequest{Username: "ops", Email: "ops@example.com", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name:        "Missing email",
			req:         SignupRequest{Username: "ops", Password: "secret1", ConfirmPassword: "secret1"},
			expectError: true,
			errorMsg:    "required",
		},
		{
			name:        "Passwords differ",
			req:         SignupRequest{Username: "ops", Email: "ops@example.com", Password: "secret1", ConfirmPassword: "secret2"},
			expectError: true,
			errorMsg:    "do not match",
		},
		{
			name:        "Password too short",
			req:         SignupRequest{Username: "ops", Email: "ops@example.com", Password: "abc", ConfirmPassword: "abc"},
			expectError: true,
			errorMsg:    "at least 6",
		},
		{
			name:        "Bad email",
			req:         SignupRequest{Username: "ops", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"},
			expectError: true,
			errorMsg:    "email",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			checkValidation(t, err, tc.expectError, tc.errorMsg)
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	u := User{Username: "ops"}
	if u.DisplayName() != "ops" {
		t.Errorf("Expected username fallback, got %s", u.DisplayName())
	}
	u.FullName = strPtr("Field Ops")
	if u.DisplayName() != "Field Ops" {
		t.Errorf("Expected full name, got %s", u.DisplayName())
	}
}

func checkValidation(t *testing.T, err error, expectError bool, errorMsg string) {
	t.Helper()

	if !expectError {
		if err != nil {
			t.Errorf("Expected no error but got: %v", err)
		}
		return
	}
	if err == nil {
		t.Errorf("Expected error but got none")
		return
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	if errorMsg != "" && !strings.Contains(err.Error(), errorMsg) {
		t.Errorf("Expected error containing '%s', got '%s'", errorMsg, err.Error())
	}
}
