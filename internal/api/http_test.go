package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	deps, v := newTestDeps(t, nil, "2024-10-05")
	writeEntry(t, v, "2024-10-01", workEntry)
	writeEntry(t, v, "2024-10-02", similarEntry)
	return NewAppHandler(AppDeps{Journal: deps.Journal})
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestHTTP_Health(t *testing.T) {
	h := newTestHandler(t)

	rec := doGet(t, h, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["status"]; got != "ok" {
		t.Errorf("status field = %v", got)
	}
}

func TestHTTP_ListEntries(t *testing.T) {
	h := newTestHandler(t)

	rec := doGet(t, h, "/entries")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	entries, ok := decodeBody(t, rec)["entries"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
	// Newest first.
	if entries[0] != "2024-10-02" {
		t.Errorf("first entry = %v", entries[0])
	}

	rec = doGet(t, h, "/entries?limit=1")
	entries = decodeBody(t, rec)["entries"].([]any)
	if len(entries) != 1 {
		t.Errorf("limit=1 returned %d entries", len(entries))
	}
}

func TestHTTP_GetEntry(t *testing.T) {
	h := newTestHandler(t)

	rec := doGet(t, h, "/entries/2024-10-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["date"] != "2024-10-01" {
		t.Errorf("date = %v", body["date"])
	}
	if content, _ := body["content"].(string); !strings.Contains(content, "Work stress") {
		t.Errorf("content = %v", body["content"])
	}
}

func TestHTTP_GetEntry_NotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := doGet(t, h, "/entries/2024-01-01")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing entry status = %d", rec.Code)
	}
	rec = doGet(t, h, "/entries/not-a-date")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", rec.Code)
	}
}

func TestHTTP_Themes(t *testing.T) {
	h := newTestHandler(t)

	rec := doGet(t, h, "/themes?date=2024-10-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	themes, ok := decodeBody(t, rec)["themes"].([]any)
	if !ok || len(themes) == 0 {
		t.Fatalf("themes = %v", themes)
	}
	first := themes[0].(map[string]any)
	if first["term"] != "work" {
		t.Errorf("top theme = %v", first["term"])
	}

	rec = doGet(t, h, "/themes")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d", rec.Code)
	}
}

func TestHTTP_Trace(t *testing.T) {
	h := newTestHandler(t)

	rec := doGet(t, h, "/trace?days=14")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["days"] != float64(14) {
		t.Errorf("days = %v", body["days"])
	}
	if report, _ := body["report"].(string); !strings.Contains(report, "# Memory Trace") {
		t.Errorf("report missing header: %v", body["report"])
	}
}
