package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"tailscale.com/client/tailscale/apitype"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/importer"
	"github.com/claude/repcoach/internal/metrics"
	"github.com/claude/repcoach/internal/storage"
)

// CSVImporter imports an uploaded export for a profile.
type CSVImporter interface {
	ImportReader(ctx context.Context, profileID uuid.UUID, source string, r io.Reader) (*importer.Result, error)
}

// ImportLogs lists past import runs.
type ImportLogs interface {
	QueryImportLogs(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.ImportLog, error)
}

// WhoIser resolves a remote address to a tailnet identity.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	coach      *coach.Service
	importer   CSVImporter
	importLogs ImportLogs
	whois      WhoIser
	metrics    *metrics.Manager
	log        *slog.Logger
	apiKey     string
	router     chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *coach.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		coach:  svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetImporter enables CSV uploads and the import history endpoint.
func (s *Server) SetImporter(imp CSVImporter, logs ImportLogs) {
	s.importer = imp
	s.importLogs = logs
}

// SetTailscale resolves request identities through the tailnet.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// SetMetrics enables request and domain metrics.
func (s *Server) SetMetrics(m *metrics.Manager) {
	s.metrics = m
}

// Mount attaches h under pattern behind the API key, sharing the logging,
// CORS and identity middleware.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle(pattern, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.requestMetrics)
	s.router.Use(CORS)
	s.router.Use(s.identity)

	auth := APIKeyAuth(s.apiKey)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		// Reference data
		r.Get("/exercises", s.handleExercises)
		r.Get("/templates", s.handleTemplates)
		r.Get("/templates/specialized", s.handleSpecialized)
		r.Get("/templates/specialized/{id}", s.handleSpecializedByID)

		// Profiles and history (mutations require the API key)
		r.With(auth).Post("/profiles", s.handleCreateProfile)
		r.Route("/profiles/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.With(auth).Put("/", s.handleUpdateProfile)
			r.Get("/logs", s.handleListLogs)
			r.With(auth).Post("/logs", s.handleAddLog)
			r.With(auth).Post("/feedback", s.handleAddFeedback)
			r.With(auth).Post("/import/alpha", s.handleImportAlpha)
			r.Get("/imports", s.handleImportLogs)
			r.With(auth).Post("/programs", s.handleGenerateProgram)
			r.Get("/fatigue", s.handleFatigue)
			r.Get("/advice", s.handleAdvice)
			r.Get("/dashboard", s.handleDashboard)
		})

		r.Get("/programs/{id}", s.handleGetProgram)
		r.With(auth).Post("/programs/{id}/adapt", s.handleAdaptProgram)
	})
}
