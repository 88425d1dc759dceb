package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sguter90/microclimate/pkg/models"
)

const testSecret = "test-secret"

// newTestRouteManager builds the full router without a database. Every request
// a test sends must be answered before a query would run.
func newTestRouteManager(t *testing.T) *RouteManager {
	t.Helper()
	rm := NewRouteManager(nil, testSecret, []string{"http://localhost:5173"})
	rm.Setup()
	return rm
}

func testToken(t *testing.T) string {
	t.Helper()
	token, _, err := GenerateJWT(&models.User{ID: 1, Username: "tester"}, []byte(testSecret))
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

func serve(rm *RouteManager, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	rm.Router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body["error"]
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	rm := newTestRouteManager(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/sensors"},
		{http.MethodGet, "/readings?page=2"},
		{http.MethodGet, "/reports"},
		{http.MethodGet, "/export/sensors/csv"},
		{http.MethodPost, "/sensors/1/delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(rm, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			want := "/login?next=" + url.QueryEscape(tt.path)
			if got := rec.Header().Get("Location"); got != want {
				t.Errorf("Location = %q, want %q", got, want)
			}
		})
	}
}

func TestAPIRoutesRequireAuth(t *testing.T) {
	rm := newTestRouteManager(t)

	for _, path := range []string{"/api/sensors/1", "/api/sensors/1/latest-reading"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(rm, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if msg := decodeErrorBody(t, rec); msg != "Authentication required" {
				t.Errorf("error = %q", msg)
			}
		})
	}
}

func TestInvalidTokensAreRejected(t *testing.T) {
	rm := newTestRouteManager(t)

	foreign, _, err := GenerateJWT(&models.User{ID: 1, Username: "tester"}, []byte("other-secret"))
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	for name, token := range map[string]string{"garbage": "not-a-token", "wrong secret": foreign} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sensors/1", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			if rec := serve(rm, req); rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	rm := newTestRouteManager(t)

	req := postForm("/sensor-types/create", url.Values{"name": {"  "}})
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: testToken(t)})

	rec := serve(rm, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestValidationFailsBeforeDatabase(t *testing.T) {
	rm := newTestRouteManager(t)
	token := testToken(t)

	validSensor := func(overrides map[string]string) url.Values {
		v := url.Values{
			"model":        {"DHT22"},
			"install_date": {"2024-01-15"},
			"status":       {"ACTIVE"},
			"type_id":      {"1"},
			"location_id":  {"1"},
		}
		for k, val := range overrides {
			v.Set(k, val)
		}
		return v
	}

	tests := []struct {
		name     string
		path     string
		form     url.Values
		errorMsg string
	}{
		{"sensor type without name", "/sensor-types/create", url.Values{"name": {""}}, "name is required"},
		{"sensor type name too long", "/sensor-types/1/edit", url.Values{"name": {strings.Repeat("x", 51)}}, "at most 50"},
		{"location latitude not a number", "/locations/create", url.Values{"latitude": {"abc"}, "longitude": {"1"}}, "latitude must be a number"},
		{"location latitude missing", "/locations/create", url.Values{"longitude": {"1"}}, "latitude must be provided"},
		{"location latitude out of range", "/locations/create", url.Values{"latitude": {"91"}, "longitude": {"0"}}, "latitude must be between -90 and 90"},
		{"location longitude out of range", "/locations/2/edit", url.Values{"latitude": {"0"}, "longitude": {"-180.5"}}, "longitude must be between -180 and 180"},
		{"sensor without model", "/sensors/create", validSensor(map[string]string{"model": ""}), "model is required"},
		{"sensor with bad install date", "/sensors/create", validSensor(map[string]string{"install_date": "15.01.2024"}), "install_date must be a date"},
		{"sensor with unknown status", "/sensors/create", validSensor(map[string]string{"status": "BROKEN"}), "invalid status"},
		{"sensor without location", "/sensors/3/edit", validSensor(map[string]string{"location_id": ""}), "location is required"},
		{"sensor with non-numeric type", "/sensors/3/edit", validSensor(map[string]string{"type_id": "temp"}), "type_id must be a whole number"},
		{"status change to unknown status", "/sensors/3/status", url.Values{"status": {"BROKEN"}}, "invalid status"},
		{"reading value not a number", "/readings/create", url.Values{"sensor_id": {"1"}, "reading_value": {"warm"}, "reading_timestamp": {"2024-01-01T10:00"}}, "reading_value must be a number"},
		{"reading value out of range", "/readings/create", url.Values{"sensor_id": {"1"}, "reading_value": {"1000000"}, "reading_timestamp": {"2024-01-01T10:00"}}, "out of range"},
		{"reading with bad timestamp", "/readings/4/edit", url.Values{"sensor_id": {"1"}, "reading_value": {"1.5"}, "reading_timestamp": {"yesterday"}}, "reading_timestamp must be a date and time"},
		{"technician without name", "/technicians/create", url.Values{"contact_no": {"555"}}, "name is required"},
		{"technician contact too long", "/technicians/create", url.Values{"name": {"Ann"}, "contact_no": {strings.Repeat("1", 16)}}, "contact number"},
		{"maintenance with unknown type", "/maintenance/create", url.Values{"sensor_id": {"1"}, "tech_id": {"1"}, "event_type": {"CLEANING"}, "event_date": {"2024-01-01T10:00"}}, "invalid event type"},
		{"maintenance without date", "/maintenance/5/edit", url.Values{"sensor_id": {"1"}, "tech_id": {"1"}, "event_type": {"REPAIR"}}, "event date is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := postForm(tt.path, tt.form)
			req.Header.Set("Authorization", "Bearer "+token)

			rec := serve(rm, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
			if msg := decodeErrorBody(t, rec); !strings.Contains(msg, tt.errorMsg) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.errorMsg)
			}
		})
	}
}

func TestExportRejectsUnknownKind(t *testing.T) {
	rm := newTestRouteManager(t)

	req := httptest.NewRequest(http.MethodGet, "/export/users/csv", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t))

	rec := serve(rm, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestExportArchiveNotConfigured(t *testing.T) {
	rm := newTestRouteManager(t)

	req := httptest.NewRequest(http.MethodGet, "/export/sensors/archive", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t))

	rec := serve(rm, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestLoginValidation(t *testing.T) {
	rm := newTestRouteManager(t)

	t.Run("empty form", func(t *testing.T) {
		rec := serve(rm, postForm("/login", url.Values{"username": {"ann"}}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(rm, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestSignupValidation(t *testing.T) {
	rm := newTestRouteManager(t)

	tests := []struct {
		name     string
		form     url.Values
		errorMsg string
	}{
		{
			name:     "missing email",
			form:     url.Values{"username": {"ann"}, "password": {"secret1"}, "confirm_password": {"secret1"}},
			errorMsg: "required",
		},
		{
			name:     "passwords differ",
			form:     url.Values{"username": {"ann"}, "email": {"ann@example.com"}, "password": {"secret1"}, "confirm_password": {"secret2"}},
			errorMsg: "passwords do not match",
		},
		{
			name:     "password too short",
			form:     url.Values{"username": {"ann"}, "email": {"ann@example.com"}, "password": {"abc"}, "confirm_password": {"abc"}},
			errorMsg: "at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(rm, postForm("/signup", tt.form))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if msg := decodeErrorBody(t, rec); !strings.Contains(msg, tt.errorMsg) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.errorMsg)
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	rm := newTestRouteManager(t)

	rec := serve(rm, httptest.NewRequest(http.MethodPost, "/logout", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired session cookie, got %+v", cookies)
	}
}

func TestLoginPageSanitizesNext(t *testing.T) {
	rm := newTestRouteManager(t)

	rec := serve(rm, httptest.NewRequest(http.MethodGet, "/login?next="+url.QueryEscape("//evil.example.com"), nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["next"] != "/" {
		t.Errorf("next = %q, want /", body["next"])
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/sensors", "/sensors"},
		{"/readings?page=2", "/readings?page=2"},
		{"//evil.example.com", "/"},
		{"/\\evil.example.com", "/"},
		{"https://evil.example.com/", "/"},
		{"sensors", "/"},
	}

	for _, tt := range tests {
		if got := safeNext(tt.next); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte(testSecret)

	token, expiresAt, err := GenerateJWT(&models.User{ID: 42, Username: "ann"}, secret)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if d := time.Until(expiresAt); d < 23*time.Hour || d > 25*time.Hour {
		t.Errorf("expiry in %v, want about 24h", d)
	}

	claims, err := parseJWT(token, secret)
	if err != nil {
		t.Fatalf("parseJWT() error = %v", err)
	}
	if claims.UserID != 42 || claims.Username != "ann" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := parseJWT(token, []byte("other")); err == nil {
		t.Error("expected an error for a token signed with another secret")
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID:   42,
		Username: "ann",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredString, err := expired.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := parseJWT(expiredString, secret); err == nil {
		t.Error("expected an error for an expired token")
	}
}

func TestCORSPreflight(t *testing.T) {
	rm := newTestRouteManager(t)

	tests := []struct {
		origin     string
		wantHeader string
	}{
		{"http://localhost:5173", "http://localhost:5173"},
		{"http://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/sensors", nil)
			req.Header.Set("Origin", tt.origin)

			rec := serve(rm, req)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}
