package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/coach/coachtest"
	"github.com/claude/repcoach/internal/importer"
	"github.com/claude/repcoach/internal/metrics"
	"github.com/claude/repcoach/internal/models"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 4, 6, 18, 0, 0, 0, time.UTC)
	svc, err := coach.NewService(coachtest.NewStore(), cat, quietLogger(), coach.Options{
		Now:     func() time.Time { return now },
		NewRand: func() *rand.Rand { return rand.New(rand.NewPCG(7, 7)) },
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(svc, testKey, quietLogger())
}

// do sends a request through the full router. A non-nil body is JSON-encoded
// unless it is already a string.
func do(t *testing.T, s *Server, method, path string, body any, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if withKey {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

func createProfile(t *testing.T, s *Server) models.UserProfile {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/profiles", models.UserProfile{
		Name:            "Sam",
		ExperienceLevel: models.Intermediate,
		FitnessGoal:     models.Strength,
		DaysPerWeek:     4,
		Injuries:        []models.Injury{{BodyPart: "Shoulder"}},
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	return decode[models.UserProfile](t, rec)
}

// TestHandleMe verifies /api/v1/me reports the dev user without tailscale.
func TestHandleMe(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/me", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if info := decode[UserInfo](t, rec); info.Login != "local" {
		t.Errorf("login = %q, want local", info.Login)
	}
}

// TestHandleExercises verifies the catalog listing and the group filter.
func TestHandleExercises(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		query string
		want  int
	}{
		{"", 19},
		{"?group=chest", 4},
		{"?group=tails", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/v1/exercises"+tt.query, nil, false)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			got := decode[[]models.ExerciseDefinition](t, rec)
			if got == nil || len(got) != tt.want {
				t.Errorf("exercises = %d (nil=%v), want %d", len(got), got == nil, tt.want)
			}
		})
	}
}

// TestHandleTemplates verifies single lookups, the full table and bad parameters.
func TestHandleTemplates(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/templates?level=beginner&goal=fat_loss", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if tmpl := decode[models.TemplateSpec](t, rec); tmpl.DaysPerWeek != 3 || tmpl.CardioMinutes != 20 {
		t.Errorf("template = %+v, want 3 days with 20 cardio minutes", tmpl)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/templates", nil, false)
	all := decode[map[string]map[string]models.TemplateSpec](t, rec)
	if len(all) != 3 || len(all["advanced"]) != 5 {
		t.Errorf("table = %d levels, %d advanced goals, want 3 and 5", len(all), len(all["advanced"]))
	}

	for _, q := range []string{"?level=beginner", "?level=expert&goal=strength"} {
		if rec := do(t, s, http.MethodGet, "/api/v1/templates"+q, nil, false); rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, rec.Code)
		}
	}
}

// TestHandleSpecialized verifies filtering and lookup by ID.
func TestHandleSpecialized(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/templates/specialized?level=beginner", nil, false)
	if got := decode[[]models.SpecializedTemplate](t, rec); len(got) != 3 {
		t.Errorf("beginner templates = %d, want 3", len(got))
	}

	rec = do(t, s, http.MethodGet, "/api/v1/templates/specialized/powerlifting-4day", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[models.SpecializedTemplate](t, rec); got.Level != models.Advanced {
		t.Errorf("level = %q, want advanced", got.Level)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/templates/specialized/yoga", nil, false); rec.Code != http.StatusNotFound {
		t.Errorf("unknown ID status = %d, want 404", rec.Code)
	}
}

// TestMutationsRequireAPIKey verifies writes are rejected without the key.
func TestMutationsRequireAPIKey(t *testing.T) {
	s := newTestServer(t)
	p := createProfile(t, s)
	paths := []string{
		"/api/v1/profiles",
		"/api/v1/profiles/" + p.ID.String() + "/logs",
		"/api/v1/profiles/" + p.ID.String() + "/feedback",
		"/api/v1/profiles/" + p.ID.String() + "/programs",
		"/api/v1/programs/" + uuid.NewString() + "/adapt",
	}
	for _, path := range paths {
		if rec := do(t, s, http.MethodPost, path, "{}", false); rec.Code != http.StatusUnauthorized {
			t.Errorf("POST %s status = %d, want 401", path, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodPut, "/api/v1/profiles/"+p.ID.String(), "{}", false); rec.Code != http.StatusUnauthorized {
		t.Errorf("PUT profile status = %d, want 401", rec.Code)
	}
}

// TestProfileErrors verifies bad IDs, bad bodies and unknown profiles map to 4xx.
func TestProfileErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad id", http.MethodGet, "/api/v1/profiles/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown", http.MethodGet, "/api/v1/profiles/" + uuid.NewString(), nil, http.StatusNotFound},
		{"bad json", http.MethodPost, "/api/v1/profiles", "{", http.StatusBadRequest},
		{"bad level", http.MethodPost, "/api/v1/profiles", `{"experience_level":"expert","fitness_goal":"strength"}`, http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/api/v1/profiles/" + uuid.NewString(), `{"experience_level":"beginner","fitness_goal":"strength"}`, http.StatusNotFound},
		{"fatigue unknown", http.MethodGet, "/api/v1/profiles/" + uuid.NewString() + "/fatigue", nil, http.StatusNotFound},
		{"dashboard unknown", http.MethodGet, "/api/v1/profiles/" + uuid.NewString() + "/dashboard", nil, http.StatusNotFound},
		{"program unknown", http.MethodGet, "/api/v1/programs/" + uuid.NewString(), nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, tt.method, tt.path, tt.body, true); rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

// TestProfileRoundTrip verifies create, get and update through the API.
func TestProfileRoundTrip(t *testing.T) {
	s := newTestServer(t)
	p := createProfile(t, s)
	base := "/api/v1/profiles/" + p.ID.String()

	rec := do(t, s, http.MethodGet, base, nil, false)
	if got := decode[models.UserProfile](t, rec); got.Name != "Sam" || len(got.Injuries) != 1 {
		t.Errorf("profile = %+v", got)
	}

	p.DaysPerWeek = 5
	rec = do(t, s, http.MethodPut, base, p, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[models.UserProfile](t, rec); got.DaysPerWeek != 5 || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("updated = %+v", got)
	}
}

// TestLogsAndFatigue verifies logged workouts feed the fatigue endpoint.
func TestLogsAndFatigue(t *testing.T) {
	s := newTestServer(t)
	p := createProfile(t, s)
	base := "/api/v1/profiles/" + p.ID.String()

	rec := do(t, s, http.MethodPost, base+"/logs", models.WorkoutLog{
		Date:              time.Date(2026, 4, 6, 8, 0, 0, 0, time.UTC),
		PerceivedExertion: 8,
		EnergyLevel:       4,
		Exercises: []models.ExerciseLog{{
			ExerciseName: "Conventional Deadlift",
			Sets:         make([]models.SetLog, 4),
		}},
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add log status = %d, body %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, http.MethodPost, base+"/logs", `{"perceived_exertion":11,"energy_level":5}`, true); rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range log status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodGet, base+"/logs", nil, false)
	if logs := decode[[]models.WorkoutLog](t, rec); len(logs) != 1 {
		t.Errorf("logs = %d, want 1", len(logs))
	}

	rec = do(t, s, http.MethodGet, base+"/fatigue?last_rest_day=2026-04-01", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("fatigue status = %d, body %s", rec.Code, rec.Body)
	}
	m := decode[models.FatigueMetrics](t, rec)
	if m.DaysSinceLastWorkout != 0 || m.NervousSystemLoad == 0 {
		t.Errorf("fatigue = %+v, want a fresh workout with CNS load", m)
	}

	if rec := do(t, s, http.MethodGet, base+"/fatigue?last_rest_day=yesterday", nil, false); rec.Code != http.StatusBadRequest {
		t.Errorf("bad last_rest_day status = %d, want 400", rec.Code)
	}
}

// TestProgramLifecycle verifies generate, fetch, feedback, adapt and dashboard.
func TestProgramLifecycle(t *testing.T) {
	s := newTestServer(t)
	p := createProfile(t, s)
	base := "/api/v1/profiles/" + p.ID.String()

	rec := do(t, s, http.MethodPost, base+"/programs", nil, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body)
	}
	prog := decode[models.WorkoutProgram](t, rec)
	if len(prog.Weeks) != 4 {
		t.Errorf("weeks = %d, want 4", len(prog.Weeks))
	}

	rec = do(t, s, http.MethodGet, "/api/v1/programs/"+prog.ID.String(), nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, base+"/feedback", models.WorkoutFeedback{
		PerceivedExertion: 3,
		EnergyLevel:       8,
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("feedback status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/programs/"+prog.ID.String()+"/adapt", nil, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("adapt status = %d, body %s", rec.Code, rec.Body)
	}
	adapted := decode[models.WorkoutProgram](t, rec)
	if adapted.ID == prog.ID {
		t.Error("adapted program reused the source ID")
	}

	rec = do(t, s, http.MethodGet, base+"/advice", nil, false)
	if a := decode[models.Assessment](t, rec); a.IsOvertraining || len(a.Recommendations) != 1 {
		t.Errorf("advice = %+v, want level line only", a)
	}

	rec = do(t, s, http.MethodGet, base+"/dashboard", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	d := decode[coach.Dashboard](t, rec)
	if d.Program == nil || d.Program.ID != adapted.ID {
		t.Errorf("dashboard program = %v, want latest %v", d.Program, adapted.ID)
	}
}

type stubImporter struct {
	got string
}

func (s *stubImporter) ImportReader(_ context.Context, _ uuid.UUID, _ string, r io.Reader) (*importer.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.got = string(data)
	return &importer.Result{SessionsReceived: 1, LogsInserted: 1}, nil
}

// TestImportAlpha verifies the upload endpoint is disabled until configured
// and passes the body through once it is.
func TestImportAlpha(t *testing.T) {
	s := newTestServer(t)
	p := createProfile(t, s)
	path := "/api/v1/profiles/" + p.ID.String() + "/import/alpha"

	if rec := do(t, s, http.MethodPost, path, "csv", true); rec.Code != http.StatusNotImplemented {
		t.Errorf("unconfigured status = %d, want 501", rec.Code)
	}

	imp := &stubImporter{}
	s.SetImporter(imp, nil)
	rec := do(t, s, http.MethodPost, path, "csv body", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if imp.got != "csv body" {
		t.Errorf("importer got %q", imp.got)
	}
	if res := decode[importer.Result](t, rec); res.LogsInserted != 1 {
		t.Errorf("result = %+v", res)
	}

	other := "/api/v1/profiles/" + uuid.NewString() + "/import/alpha"
	if rec := do(t, s, http.MethodPost, other, "csv", true); rec.Code != http.StatusNotFound {
		t.Errorf("unknown profile status = %d, want 404", rec.Code)
	}
}

type failingWriter struct{}

func (failingWriter) InsertImportedLog(context.Context, *models.WorkoutLog, string) (bool, error) {
	return false, errors.New("connection refused")
}

// TestImportAlphaErrorStatus verifies bad exports are rejected with 400 while
// storage failures surface as 500 so uploads are retried.
func TestImportAlphaErrorStatus(t *testing.T) {
	const valid = `"Push · Day 1";"2026-02-17 17:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps"
#;KG;REPS;RIR
1;80;6;2
`
	tests := []struct {
		name   string
		store  importer.LogWriter
		body   string
		status int
	}{
		{"store failure", failingWriter{}, valid, http.StatusInternalServerError},
		{"malformed export", failingWriter{}, "1;80;6;2\n", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			p := createProfile(t, s)
			s.SetImporter(importer.New(tt.store, nil, quietLogger(), false), nil)

			rec := do(t, s, http.MethodPost, "/api/v1/profiles/"+p.ID.String()+"/import/alpha", tt.body, true)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

// TestMountRequiresAPIKey verifies mounted handlers sit behind the API key.
func TestMountRequiresAPIKey(t *testing.T) {
	s := newTestServer(t)
	s.Mount("/mcp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	if rec := do(t, s, http.MethodPost, "/mcp", "{}", false); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/mcp", "{}", true); rec.Code != http.StatusAccepted {
		t.Errorf("with key: status = %d, want 202", rec.Code)
	}
}

// TestRequestMetrics verifies requests are counted by route pattern and that
// domain counters follow successful mutations only.
func TestRequestMetrics(t *testing.T) {
	s := newTestServer(t)
	m, _ := metrics.NewTestManager()
	s.SetMetrics(m)

	p := createProfile(t, s)
	do(t, s, http.MethodGet, "/api/v1/profiles/"+uuid.NewString(), nil, false)
	if rec := do(t, s, http.MethodPost, "/api/v1/profiles/"+p.ID.String()+"/programs", nil, true); rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d", rec.Code)
	}
	do(t, s, http.MethodPost, "/api/v1/profiles/"+uuid.NewString()+"/programs", nil, true)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("POST", "201")); got != 2 {
		t.Errorf("requests{POST,201} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "404")); got != 1 {
		t.Errorf("requests{GET,404} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ProgramsGenerated); got != 1 {
		t.Errorf("programs generated = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.RequestDuration, "repcoach_test_request_duration_seconds"); n != 4 {
		t.Errorf("duration series = %d, want 4", n)
	}
}
