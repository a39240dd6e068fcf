package server

import (
	"errors"
	"net/http"

	"github.com/claude/repcoach/internal/importer"
	"github.com/claude/repcoach/internal/models"
)

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.UserProfile
	if !decodeJSON(w, r, &p) {
		return
	}
	created, err := s.coach.CreateProfile(r.Context(), &p)
	if err != nil {
		s.writeError(w, "create profile error", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	p, err := s.coach.GetProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, "get profile error", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	var p models.UserProfile
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = id
	updated, err := s.coach.UpdateProfile(r.Context(), &p)
	if err != nil {
		s.writeError(w, "update profile error", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAddLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	var l models.WorkoutLog
	if !decodeJSON(w, r, &l) {
		return
	}
	created, err := s.coach.AddLog(r.Context(), id, &l)
	if err != nil {
		s.writeError(w, "add log error", err)
		return
	}
	s.metrics.LogsAdded("api", 1)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	if _, err := s.coach.GetProfile(r.Context(), id); err != nil {
		s.writeError(w, "get profile error", err)
		return
	}
	logs, err := s.coach.ListLogs(r.Context(), id, queryLimit(r))
	if err != nil {
		s.writeError(w, "list logs error", err)
		return
	}
	if logs == nil {
		logs = []models.WorkoutLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	var f models.WorkoutFeedback
	if !decodeJSON(w, r, &f) {
		return
	}
	created, err := s.coach.AddFeedback(r.Context(), id, &f)
	if err != nil {
		s.writeError(w, "add feedback error", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleImportAlpha imports an Alpha Progression CSV sent as the request body.
func (s *Server) handleImportAlpha(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "import not configured"})
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	if _, err := s.coach.GetProfile(r.Context(), id); err != nil {
		s.writeError(w, "get profile error", err)
		return
	}
	res, err := s.importer.ImportReader(r.Context(), id, "upload", http.MaxBytesReader(w, r.Body, 32*maxBodyBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, importer.ErrParse):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.writeError(w, "alpha import error", err)
		return
	}
	s.metrics.LogsAdded("import", res.LogsInserted)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	if s.importLogs == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "import not configured"})
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}
	logs, err := s.importLogs.QueryImportLogs(r.Context(), id, queryLimit(r))
	if err != nil {
		s.writeError(w, "import logs error", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
