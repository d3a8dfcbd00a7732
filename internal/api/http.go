package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quietloop/diarium/internal/journal"
	"github.com/quietloop/diarium/internal/vault"
)

// AppDeps holds dependencies for the read-only HTTP API.
type AppDeps struct {
	Journal *journal.Service
}

// NewAppHandler exposes derived journal data over HTTP. The surface is
// deliberately read-only: entry mutation goes through the MCP tools.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth())
	r.Get("/entries", handleListEntries(deps))
	r.Get("/entries/{date}", handleGetEntry(deps))
	r.Get("/themes", handleThemes(deps))
	r.Get("/trace", handleTrace(deps))

	return r
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func handleListEntries(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.Journal.List()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list entries: %v", err)
			return
		}

		limit := parseIntParam(r, "limit", 50, 500)
		if len(entries) > limit {
			entries = entries[:limit]
		}

		dates := make([]string, len(entries))
		for i, e := range entries {
			dates[i] = e.Date.Format(vault.DateLayout)
		}
		writeJSON(w, map[string]any{"entries": dates})
	}
}

func handleGetEntry(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := vault.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid date: use YYYY-MM-DD")
			return
		}

		content, err := deps.Journal.Read(date)
		if errors.Is(err, vault.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "entry not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to read entry: %v", err)
			return
		}

		writeJSON(w, map[string]string{
			"date":    date.Format(vault.DateLayout),
			"content": content,
		})
	}
}

func handleThemes(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("date")
		if raw == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "date query parameter is required")
			return
		}
		date, err := vault.ParseDate(raw)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid date: use YYYY-MM-DD")
			return
		}

		ts, err := deps.Journal.Themes(date)
		if errors.Is(err, vault.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "entry not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to derive themes: %v", err)
			return
		}

		type themeResult struct {
			Term  string `json:"term"`
			Count int    `json:"count"`
		}
		results := make([]themeResult, len(ts.Terms))
		for i, term := range ts.Terms {
			results[i] = themeResult{Term: term.Text, Count: term.Count}
		}
		writeJSON(w, map[string]any{
			"date":   date.Format(vault.DateLayout),
			"themes": results,
		})
	}
}

func handleTrace(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := parseIntParam(r, "days", 30, 365)

		report, err := deps.Journal.Trace(r.Context(), days)
		if err != nil {
			httpError(w, http.StatusNotFound, "not_found", "failed to build trace: %v", err)
			return
		}
		writeJSON(w, map[string]any{
			"days":   days,
			"report": report,
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
