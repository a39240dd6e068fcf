package server

import (
	"net/http"
	"time"
)

func (s *Server) handleGenerateProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	p, err := s.coach.GenerateProgram(r.Context(), id)
	if err != nil {
		s.writeError(w, "generate program error", err)
		return
	}
	s.metrics.ProgramGenerated()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "program")
	if !ok {
		return
	}
	p, err := s.coach.GetProgram(r.Context(), id)
	if err != nil {
		s.writeError(w, "get program error", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAdaptProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "program")
	if !ok {
		return
	}
	p, err := s.coach.AdaptProgram(r.Context(), id)
	if err != nil {
		s.writeError(w, "adapt program error", err)
		return
	}
	s.metrics.ProgramAdapted()
	writeJSON(w, http.StatusCreated, p)
}

// handleFatigue accepts an optional ?last_rest_day= overriding the profile's value.
func (s *Server) handleFatigue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	var lastRest *time.Time
	if v := r.URL.Query().Get("last_rest_day"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		lastRest = &t
	}
	m, err := s.coach.Fatigue(r.Context(), id, lastRest)
	if err != nil {
		s.writeError(w, "fatigue error", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	a, err := s.coach.Advice(r.Context(), id)
	if err != nil {
		s.writeError(w, "advice error", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	d, err := s.coach.Dashboard(r.Context(), id)
	if err != nil {
		s.writeError(w, "dashboard error", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
