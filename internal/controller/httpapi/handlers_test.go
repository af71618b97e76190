package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnubhavPadiyar/spotscout-server/internal/clock"
	"github.com/AnubhavPadiyar/spotscout-server/internal/repository"
	"github.com/AnubhavPadiyar/spotscout-server/internal/service"
	"github.com/AnubhavPadiyar/spotscout-server/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type apiFixture struct {
	router *gin.Engine
	clk    *clock.FakeClock
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	kv := store.NewMemory()
	clk := clock.Fake(time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))

	libraryRepo := repository.NewLibraryRepository(kv, logger)
	bookingRepo := repository.NewBookingRepository(kv, logger)
	studentRepo := repository.NewStudentRepository(kv, logger)

	engine := service.NewBookingService(libraryRepo, bookingRepo, clk, 6*time.Minute, 4*time.Hour, logger)
	libraries := service.NewLibraryService(libraryRepo, engine, "1234", logger)
	students := service.NewStudentService(studentRepo, logger)

	handler := NewHandler(libraries, engine, students, clk, logger)
	return &apiFixture{router: NewRouter(handler, logger), clk: clk}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) onboard(t *testing.T) {
	t.Helper()
	w := f.do(t, http.MethodPut, "/api/student", map[string]string{
		"name": "Asha", "erpId": "ERP-1", "department": "CSE", "year": "3", "section": "B",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("onboarding failed: %d %s", w.Code, w.Body.String())
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestBookingRequiresProfile(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/bookings", map[string]string{"libraryId": "gehu-central"})
	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412", w.Code)
	}
}

func TestBookAndScanFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.onboard(t)

	w := f.do(t, http.MethodPost, "/api/bookings", map[string]string{"libraryId": "gehu-central"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if created["status"] != "pending" {
		t.Errorf("status = %v, want pending", created["status"])
	}
	if created["countdown"] != "6:00" {
		t.Errorf("countdown = %v, want 6:00", created["countdown"])
	}

	// Roster read reflects the held seat.
	w = f.do(t, http.MethodGet, "/api/libraries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get libraries: %d", w.Code)
	}
	var libs []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &libs); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	for _, lib := range libs {
		if lib["id"] == "gehu-central" && lib["availableSpots"].(float64) != 15 {
			t.Errorf("availableSpots = %v, want 15", lib["availableSpots"])
		}
	}

	// Duplicate booking at the same library is rejected.
	w = f.do(t, http.MethodPost, "/api/bookings", map[string]string{"libraryId": "gehu-central"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate booking: %d, want 409", w.Code)
	}
	if decode(t, w)["code"] != "duplicateActiveBooking" {
		t.Errorf("code = %v, want duplicateActiveBooking", decode(t, w)["code"])
	}

	// Entrance scan checks in.
	f.clk.Advance(time.Minute)
	w = f.do(t, http.MethodPost, "/api/scan", map[string]string{"code": "gehu-central"})
	if w.Code != http.StatusOK {
		t.Fatalf("scan: %d %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["action"]; got != "checkin" {
		t.Fatalf("action = %v, want checkin", got)
	}

	// Second scan checks out and frees the seat.
	f.clk.Advance(time.Hour)
	w = f.do(t, http.MethodPost, "/api/scan", map[string]string{"code": "gehu-central"})
	if got := decode(t, w)["action"]; got != "checkout" {
		t.Fatalf("action = %v, want checkout", got)
	}

	w = f.do(t, http.MethodGet, "/api/bookings", nil)
	var views []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode bookings: %v", err)
	}
	if len(views) != 1 || views[0]["status"] != "completed" {
		t.Errorf("booking history = %+v, want one completed entry", views)
	}
}

func TestBookingUnknownLibrary(t *testing.T) {
	f := newAPIFixture(t)
	f.onboard(t)

	w := f.do(t, http.MethodPost, "/api/bookings", map[string]string{"libraryId": "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestScanWithoutBookingReportsNone(t *testing.T) {
	f := newAPIFixture(t)
	f.onboard(t)

	w := f.do(t, http.MethodPost, "/api/scan", map[string]string{"code": "gehu-central"})
	if w.Code != http.StatusOK {
		t.Fatalf("scan: %d", w.Code)
	}
	if got := decode(t, w)["action"]; got != "none" {
		t.Errorf("action = %v, want none", got)
	}
}

func TestAdminLoginScopes(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/admin/login", map[string]string{"pin": "0000"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad pin: %d, want 401", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/admin/login", map[string]string{"pin": "1234"})
	if w.Code != http.StatusOK {
		t.Fatalf("master pin: %d %s", w.Code, w.Body.String())
	}
	scope := decode(t, w)["scope"].(map[string]any)
	if scope["allLibraries"] != true {
		t.Errorf("scope = %v, want allLibraries", scope)
	}

	w = f.do(t, http.MethodPost, "/api/admin/login", map[string]string{"pin": "2222"})
	scope = decode(t, w)["scope"].(map[string]any)
	if scope["libraryId"] != "gehu-law" {
		t.Errorf("scope = %v, want gehu-law", scope)
	}
}

func TestAdminReleaseScopeEnforcement(t *testing.T) {
	f := newAPIFixture(t)

	// Law library PIN cannot release central library seats.
	w := f.do(t, http.MethodPost, "/api/admin/release", map[string]any{
		"pin": "2222", "libraryId": "gehu-central", "count": 1,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-library release: %d, want 403", w.Code)
	}

	// Master PIN may, but with no confirmed bookings nothing releases.
	w = f.do(t, http.MethodPost, "/api/admin/release", map[string]any{
		"pin": "1234", "libraryId": "gehu-central", "count": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("master release: %d %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["released"].(float64); got != 0 {
		t.Errorf("released = %v, want 0", got)
	}
}

func TestAdminReleaseFreesConfirmedSeat(t *testing.T) {
	f := newAPIFixture(t)
	f.onboard(t)

	f.do(t, http.MethodPost, "/api/bookings", map[string]string{"libraryId": "gehu-law"})
	f.do(t, http.MethodPost, "/api/scan", map[string]string{"code": "gehu-law"})

	w := f.do(t, http.MethodPost, "/api/admin/release", map[string]any{
		"pin": "2222", "libraryId": "gehu-law", "count": 3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("release: %d %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["released"].(float64); got != 1 {
		t.Errorf("released = %v, want 1", got)
	}
}

func TestLibraryQR(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/libraries/gehu-central/qr", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("qr: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty png body")
	}

	w = f.do(t, http.MethodGet, "/api/libraries/nope/qr", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown library qr: %d, want 404", w.Code)
	}
}

func TestProfileEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/student", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("profile before onboarding: %d, want 404", w.Code)
	}

	w = f.do(t, http.MethodPut, "/api/student", map[string]string{"name": "", "erpId": "ERP-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid profile: %d, want 400", w.Code)
	}

	f.onboard(t)
	w = f.do(t, http.MethodGet, "/api/student", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile after onboarding: %d", w.Code)
	}
	if got := decode(t, w)["erpId"]; got != "ERP-1" {
		t.Errorf("erpId = %v, want ERP-1", got)
	}
}
