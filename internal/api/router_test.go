package api

import (
	"bytes"
	"encoding/json"
	"hos-trip-planner/internal/adapters/repositories"
	"hos-trip-planner/internal/adapters/routing"
	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/db"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	provider := routing.NewMockRouteProvider([]routing.MockPair{
		{
			From: "Phoenix, AZ", To: "Flagstaff, AZ", Miles: 145,
			Shape: []domain.Coordinates{{Lat: 33.45, Lng: -112.07}, {Lat: 35.2, Lng: -111.65}},
		},
		{
			From: "Flagstaff, AZ", To: "Denver, CO", Miles: 555,
			Shape: []domain.Coordinates{{Lat: 35.2, Lng: -111.65}, {Lat: 39.74, Lng: -104.99}},
		},
	})

	return NewRouter(repositories.NewSqliteTripRepository(conn), provider, RouterOptions{
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxSteps:       100_000,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	newTestRouter(t).ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestPlanTripThenFetch(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/plan-trip", `{
		"currentLocation": "Phoenix, AZ",
		"pickupLocation": "Flagstaff, AZ",
		"dropoffLocation": "Denver, CO",
		"cycleHoursUsed": 10
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var planned dto.TripResponse
	if err := json.NewDecoder(rec.Body).Decode(&planned); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := uuid.Parse(planned.ID); err != nil {
		t.Fatalf("id = %q: %v", planned.ID, err)
	}
	if planned.TotalDistance != 700 || len(planned.RoutePath) != 4 {
		t.Fatalf("unexpected plan: %+v", planned)
	}
	if len(planned.Stops) != 3 || planned.Stops[0].Reason != "Pickup" || planned.Stops[2].Location != "Mid-trip Stop" {
		t.Fatalf("stops = %+v", planned.Stops)
	}
	if len(planned.DailyLogs) < 2 || planned.DailyLogs[0].Date != "Day 1" {
		t.Fatalf("daily logs = %+v", planned.DailyLogs)
	}
	if first := planned.DailyLogs[0].Events[0]; first.Status != "Driving" || first.StartTime != "00:00" {
		t.Fatalf("first entry = %+v", first)
	}

	rec = do(t, h, http.MethodGet, "/api/trips/"+planned.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d body=%s", rec.Code, rec.Body.String())
	}
	var fetched dto.TripResponse
	if err := json.NewDecoder(rec.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched.ID != planned.ID || fetched.TotalHours != planned.TotalHours || len(fetched.DailyLogs) != len(planned.DailyLogs) {
		t.Fatalf("fetched %+v, planned %+v", fetched, planned)
	}

	rec = do(t, h, http.MethodGet, "/api/trips?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list dto.ListTripsResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Trips) != 1 || list.Trips[0].ID != planned.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestPlanTripErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{
			name:   "missing field",
			body:   `{"currentLocation": "Phoenix, AZ", "pickupLocation": "Flagstaff, AZ"}`,
			status: http.StatusBadRequest,
			msg:    "Missing required field: dropoffLocation",
		},
		{
			name:   "invalid json",
			body:   `{"currentLocation": `,
			status: http.StatusBadRequest,
			msg:    "Invalid JSON in request body",
		},
		{
			name:   "cycle hours out of range",
			body:   `{"currentLocation": "Phoenix, AZ", "pickupLocation": "Flagstaff, AZ", "dropoffLocation": "Denver, CO", "cycleHoursUsed": 80}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown route",
			body:   `{"currentLocation": "Phoenix, AZ", "pickupLocation": "Flagstaff, AZ", "dropoffLocation": "Atlantis"}`,
			status: http.StatusBadGateway,
			msg:    "Failed to get route",
		},
	}

	h := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/plan-trip", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tt.status, rec.Body.String())
			}
			if msg := decodeError(t, rec); tt.msg != "" && msg != tt.msg {
				t.Fatalf("error = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestSimulate(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/simulate", `{"totalDistance": 100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var res dto.SimulateResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Events) != 10 {
		t.Fatalf("events = %d, want 10", len(res.Events))
	}
	if res.Events[0].Reason != "Pickup" || res.Events[len(res.Events)-1].Reason != "Dropoff" {
		t.Fatalf("events = %+v", res.Events)
	}
	if len(res.DailyLogs) != 1 {
		t.Fatalf("daily logs = %d, want 1", len(res.DailyLogs))
	}
}

func TestSimulateRejectsBadInput(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/simulate", `{"pickupLegDistance": 10}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != "Missing required field: totalDistance" {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/simulate", `{"totalDistance": 10, "pickupLegDistance": 20}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("pickup > total: status = %d", rec.Code)
	}
}

func TestGetTripErrors(t *testing.T) {
	h := newTestRouter(t)

	if rec := do(t, h, http.MethodGet, "/api/trips/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/trips/"+uuid.NewString(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing trip: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/trips?limit=0", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/plan-trip", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("Allow = %q", allow)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec) != "not found" {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/plan-trip", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	newTestRouter(t).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
