package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

func testAPI(t *testing.T, mux *http.ServeMux) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL+"/", "secret")
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// TestHTTPClientFatigue verifies the path and the last_rest_day parameter.
func TestHTTPClientFatigue(t *testing.T) {
	id := uuid.New()
	rest := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/profiles/{id}/fatigue", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != id.String() {
			t.Errorf("id = %q, want %s", r.PathValue("id"), id)
		}
		if got := r.URL.Query().Get("last_rest_day"); got != "2026-04-01T00:00:00Z" {
			t.Errorf("last_rest_day = %q", got)
		}
		if r.Header.Get("X-API-Key") != "" {
			t.Error("API key sent on a read")
		}
		writeBody(w, models.FatigueMetrics{CurrentFatigue: 6, RecommendedRestDays: 2})
	})

	m, err := testAPI(t, mux).Fatigue(context.Background(), id, &rest)
	if err != nil {
		t.Fatal(err)
	}
	if m.CurrentFatigue != 6 || m.RecommendedRestDays != 2 {
		t.Errorf("metrics = %+v", m)
	}
}

// TestHTTPClientGenerateSendsKey verifies mutating calls carry the API key.
func TestHTTPClientGenerateSendsKey(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/profiles/{id}/programs", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want secret", got)
		}
		w.WriteHeader(http.StatusCreated)
		writeBody(w, models.WorkoutProgram{ID: id, ProfileID: id, Weeks: make([]models.WorkoutWeek, 4)})
	})

	p, err := testAPI(t, mux).GenerateProgram(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Weeks) != 4 {
		t.Errorf("weeks = %d, want 4", len(p.Weeks))
	}
}

// TestHTTPClientNotFound verifies 404 maps to coach.ErrNotFound.
func TestHTTPClientNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeBody(w, map[string]string{"error": "profile not found"})
	})
	_, err := testAPI(t, mux).Advice(context.Background(), uuid.New())
	if !errors.Is(err, coach.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestHTTPClientServerError verifies non-2xx statuses surface as errors.
func TestHTTPClientServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := testAPI(t, mux).Exercises(context.Background(), "")
	if err == nil || errors.Is(err, coach.ErrNotFound) {
		t.Errorf("err = %v, want plain error", err)
	}
}

// TestHTTPClientCatalogQueries verifies catalog parameters reach the API.
func TestHTTPClientCatalogQueries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("group"); got != "legs" {
			t.Errorf("group = %q, want legs", got)
		}
		writeBody(w, []models.ExerciseDefinition{{Name: "Leg Press"}})
	})
	mux.HandleFunc("GET /api/v1/templates", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("level") == "" {
			writeBody(w, models.TemplateTable{models.Beginner: {models.Strength: {DaysPerWeek: 3}}})
			return
		}
		if q.Get("level") != "advanced" || q.Get("goal") != "endurance" {
			t.Errorf("query = %v", q)
		}
		writeBody(w, models.TemplateSpec{DaysPerWeek: 5})
	})
	mux.HandleFunc("GET /api/v1/templates/specialized", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "strength" || q.Get("split") != "4-day" || q.Get("level") != "intermediate" {
			t.Errorf("query = %v", q)
		}
		writeBody(w, []models.SpecializedTemplate{{ID: "upper-lower-4day"}})
	})

	c := testAPI(t, mux)
	ctx := context.Background()

	ex, err := c.Exercises(ctx, "legs")
	if err != nil || len(ex) != 1 {
		t.Errorf("Exercises = %v, %v", ex, err)
	}
	tmpl, err := c.Template(ctx, models.Advanced, models.Endurance)
	if err != nil || tmpl.DaysPerWeek != 5 {
		t.Errorf("Template = %+v, %v", tmpl, err)
	}
	table, err := c.Templates(ctx)
	if err != nil || table[models.Beginner][models.Strength].DaysPerWeek != 3 {
		t.Errorf("Templates = %v, %v", table, err)
	}
	splits, err := c.Specialized(ctx, catalog.SpecializedFilter{Category: "strength", Split: "4-day", Level: models.Intermediate})
	if err != nil || len(splits) != 1 || splits[0].ID != "upper-lower-4day" {
		t.Errorf("Specialized = %v, %v", splits, err)
	}
}
