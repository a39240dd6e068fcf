package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Only unexpected errors are logged.
func (s *Server) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, coach.ErrNotFound), errors.Is(err, catalog.ErrMissingTemplate):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, coach.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error(msg, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// decodeJSON reads a size-limited JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseTime accepts RFC 3339 or a bare date.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// queryLimit reads ?limit=, returning 0 when absent or not a positive integer.
func queryLimit(r *http.Request) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	cat := s.coach.Catalog()
	if group := r.URL.Query().Get("group"); group != "" {
		writeJSON(w, http.StatusOK, cat.ByGroup(group))
		return
	}
	writeJSON(w, http.StatusOK, cat.Exercises())
}

// handleTemplates returns one template for ?level=&goal=, or the whole
// table keyed by level then goal when neither is given.
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	cat := s.coach.Catalog()
	level := models.ExperienceLevel(r.URL.Query().Get("level"))
	goal := models.FitnessGoal(r.URL.Query().Get("goal"))

	if level == "" && goal == "" {
		writeJSON(w, http.StatusOK, cat.Table())
		return
	}

	if !level.Valid() || !goal.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "level and goal must both be valid"})
		return
	}
	t, err := cat.Template(level, goal)
	if err != nil {
		s.writeError(w, "template error", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleSpecialized(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.coach.Catalog().Specialized(catalog.SpecializedFilter{
		Category: q.Get("category"),
		Split:    q.Get("split"),
		Level:    models.ExperienceLevel(q.Get("level")),
	}))
}

func (s *Server) handleSpecializedByID(w http.ResponseWriter, r *http.Request) {
	t, ok := s.coach.Catalog().SpecializedByID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}
