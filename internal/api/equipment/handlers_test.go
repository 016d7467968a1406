package equipment

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/codr1/labplanner/internal/config"
	"github.com/codr1/labplanner/internal/db"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
	"github.com/codr1/labplanner/internal/testutil"
)

func setupEquipmentTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)

	resetHandlerState()
	InitHandlers(database.Queries, config.Default().Defaults, layout.NewCache())
	t.Cleanup(resetHandlerState)

	return database
}

func resetHandlerState() {
	queries = nil
	defaults = config.DefaultsConfig{}
	layoutCache = nil
	queriesOnce = sync.Once{}
}

func postEquipment(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/equipment", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	HandleEquipmentCreate(recorder, req)
	return recorder
}

func TestHandleEquipmentCreate_Defaults(t *testing.T) {
	setupEquipmentTest(t)

	recorder := postEquipment(t, `{"name":"EKV-2000","category":"vibration"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var created dbgen.Equipment
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.MaxTests != 1 || created.Sides != 1 || created.Status != "active" {
		t.Fatalf("defaults not applied: %+v", created)
	}
}

func TestHandleEquipmentCreate_Errors(t *testing.T) {
	setupEquipmentTest(t)

	if rec := postEquipment(t, `{"name":"EKV-2000","category":"vibration","sides":2,"max_tests":3}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed status: %d", rec.Code)
	}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "duplicate", body: `{"name":"EKV-2000","category":"vibration"}`, status: http.StatusConflict},
		{name: "missing name", body: `{"category":"vibration"}`, status: http.StatusBadRequest},
		{name: "missing category", body: `{"name":"X"}`, status: http.StatusBadRequest},
		{name: "zero sides", body: `{"name":"X","category":"c","sides":0}`, status: http.StatusBadRequest},
		{name: "sides above configured max", body: `{"name":"X","category":"c","sides":9}`, status: http.StatusBadRequest},
		{name: "huge sides", body: `{"name":"X","category":"c","sides":4611686018427387904}`, status: http.StatusBadRequest},
		{name: "negative capacity", body: `{"name":"X","category":"c","max_tests":-1}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postEquipment(t, tt.body); rec.Code != tt.status {
				t.Fatalf("status: %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandleEquipmentUpdate(t *testing.T) {
	database := setupEquipmentTest(t)
	postEquipment(t, `{"name":"VTS-100","category":"shock","max_tests":2}`)

	req := httptest.NewRequest(http.MethodPut, "/api/equipment/VTS-100", strings.NewReader(`{"category":"shock","status":"maintenance"}`))
	req.SetPathValue("name", "VTS-100")
	recorder := httptest.NewRecorder()
	HandleEquipmentUpdate(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	stored, err := database.Queries.GetEquipment(context.Background(), "VTS-100")
	if err != nil {
		t.Fatalf("get equipment: %v", err)
	}
	if stored.Status != "maintenance" || stored.MaxTests != 2 {
		t.Fatalf("unexpected stored equipment: %+v", stored)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/equipment/missing", strings.NewReader(`{"category":"shock"}`))
	req.SetPathValue("name", "missing")
	recorder = httptest.NewRecorder()
	HandleEquipmentUpdate(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("missing equipment status: %d", recorder.Code)
	}
}

func TestCapacityOverrides(t *testing.T) {
	database := setupEquipmentTest(t)
	postEquipment(t, `{"name":"EKV-2000","category":"vibration","max_tests":3}`)

	req := httptest.NewRequest(http.MethodPost, "/api/equipment/EKV-2000/capacity-overrides",
		strings.NewReader(`{"start_date":"2024-03-01","end_date":"2024-03-10","max_tests":1,"reason":"maintenance"}`))
	req.SetPathValue("name", "EKV-2000")
	recorder := httptest.NewRecorder()
	HandleCapacityOverrideCreate(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var created dbgen.EquipmentCapacityOverride
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Reason != "maintenance" {
		t.Fatalf("unexpected override: %+v", created)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/equipment/missing/capacity-overrides",
		strings.NewReader(`{"start_date":"2024-03-01","end_date":"2024-03-10","max_tests":1}`))
	req.SetPathValue("name", "missing")
	recorder = httptest.NewRecorder()
	HandleCapacityOverrideCreate(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("override for unknown equipment status: %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/equipment/EKV-2000/capacity-overrides",
		strings.NewReader(`{"start_date":"2024-03-01","end_date":"2024-03-10"}`))
	req.SetPathValue("name", "EKV-2000")
	recorder = httptest.NewRecorder()
	HandleCapacityOverrideCreate(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("missing max_tests status: %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	HandleCapacityOverridesList(recorder, httptest.NewRequest(http.MethodGet, "/api/equipment/capacity-overrides", nil))
	var list []dbgen.EquipmentCapacityOverride
	if err := json.Unmarshal(recorder.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 override, got %d", len(list))
	}

	// Deleting equipment cascades to its overrides.
	req = httptest.NewRequest(http.MethodDelete, "/api/equipment/EKV-2000", nil)
	req.SetPathValue("name", "EKV-2000")
	recorder = httptest.NewRecorder()
	HandleEquipmentDelete(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("delete status: %d", recorder.Code)
	}
	remaining, err := database.Queries.ListCapacityOverrides(context.Background())
	if err != nil {
		t.Fatalf("list overrides: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected overrides to cascade, got %d", len(remaining))
	}
}

func TestHandleCapacityOverrideDelete(t *testing.T) {
	database := setupEquipmentTest(t)
	postEquipment(t, `{"name":"EKV-2000","category":"vibration"}`)
	created, err := database.Queries.CreateCapacityOverride(context.Background(), dbgen.CreateCapacityOverrideParams{
		EquipmentName: "EKV-2000", StartDate: "2024-03-01", EndDate: "2024-03-02", MaxTests: 0,
	})
	if err != nil {
		t.Fatalf("seed override: %v", err)
	}

	for _, want := range []int{http.StatusOK, http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodDelete, "/api/equipment/capacity-overrides/1", nil)
		req.SetPathValue("id", "1")
		recorder := httptest.NewRecorder()
		HandleCapacityOverrideDelete(recorder, req)
		if recorder.Code != want {
			t.Fatalf("delete override %d: status %d, want %d", created.ID, recorder.Code, want)
		}
	}
}
