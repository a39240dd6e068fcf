// Package coach composes the reference catalog, the fatigue estimator, the
// program generator and the advisor with persistence.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/claude/repcoach/internal/advisor"
	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/program"
)

// Options tunes history windows and test hooks. Zero values use defaults.
type Options struct {
	LogWindow      int // logs fed to the estimator
	FeedbackWindow int // feedback entries fed to the advisor and adapter
	Now            func() time.Time
	NewRand        func() *rand.Rand
}

const (
	defaultLogWindow      = 60
	defaultFeedbackWindow = 10
)

// Service is the coaching API used by the HTTP and MCP layers.
type Service struct {
	store     Store
	catalog   *catalog.Catalog
	estimator *fatigue.Estimator
	log       *slog.Logger
	opts      Options
}

// NewService wires a Service. It fails if the catalog cannot back the
// program generator.
func NewService(store Store, cat *catalog.Catalog, log *slog.Logger, opts Options) (*Service, error) {
	if err := program.CheckPlans(cat); err != nil {
		return nil, fmt.Errorf("checking workout plans: %w", err)
	}
	if opts.LogWindow <= 0 {
		opts.LogWindow = defaultLogWindow
	}
	if opts.FeedbackWindow <= 0 {
		opts.FeedbackWindow = defaultFeedbackWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return &Service{
		store:     store,
		catalog:   cat,
		estimator: fatigue.NewEstimator(cat, fatigue.WithClock(opts.Now)),
		log:       log,
		opts:      opts,
	}, nil
}

// Catalog returns the reference data the service was built with.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreateProfile validates and stores a new profile.
func (s *Service) CreateProfile(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := s.opts.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.store.CreateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	return p, nil
}

// UpdateProfile replaces an existing profile.
func (s *Service) UpdateProfile(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	existing, err := s.store.GetProfile(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.opts.Now().UTC()
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return p, nil
}

// GetProfile loads one profile.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

// AddLog appends a workout to a profile's history.
func (s *Service) AddLog(ctx context.Context, profileID uuid.UUID, l *models.WorkoutLog) (*models.WorkoutLog, error) {
	if err := validateScale("perceived_exertion", l.PerceivedExertion); err != nil {
		return nil, err
	}
	if err := validateScale("energy_level", l.EnergyLevel); err != nil {
		return nil, err
	}
	if _, err := s.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.ProfileID = profileID
	if l.Date.IsZero() {
		l.Date = s.opts.Now().UTC()
	}
	if err := s.store.InsertWorkoutLog(ctx, l); err != nil {
		return nil, fmt.Errorf("inserting workout log: %w", err)
	}
	return l, nil
}

// ListLogs returns the newest logs first. limit <= 0 uses the log window.
func (s *Service) ListLogs(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutLog, error) {
	if limit <= 0 {
		limit = s.opts.LogWindow
	}
	logs, err := s.store.ListWorkoutLogs(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing workout logs: %w", err)
	}
	return logs, nil
}

// AddFeedback stores a post-workout questionnaire.
func (s *Service) AddFeedback(ctx context.Context, profileID uuid.UUID, f *models.WorkoutFeedback) (*models.WorkoutFeedback, error) {
	if err := validateScale("perceived_exertion", f.PerceivedExertion); err != nil {
		return nil, err
	}
	if err := validateScale("energy_level", f.EnergyLevel); err != nil {
		return nil, err
	}
	if _, err := s.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.ProfileID = profileID
	if f.CompletionDate.IsZero() {
		f.CompletionDate = s.opts.Now().UTC()
	}
	if err := s.store.InsertFeedback(ctx, f); err != nil {
		return nil, fmt.Errorf("inserting feedback: %w", err)
	}
	return f, nil
}

// GenerateProgram builds and stores a fresh program for a profile.
func (s *Service) GenerateProgram(ctx context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	gen, err := program.NewGenerator(s.catalog, program.WithRand(s.opts.NewRand()), program.WithClock(s.opts.Now))
	if err != nil {
		return nil, err
	}
	p, err := gen.Generate(profile)
	if err != nil {
		return nil, fmt.Errorf("generating program: %w", err)
	}
	if err := s.store.SaveProgram(ctx, p); err != nil {
		return nil, fmt.Errorf("saving program: %w", err)
	}
	s.log.Info("program generated",
		"profile_id", profileID,
		"program_id", p.ID,
		"level", profile.ExperienceLevel,
		"goal", profile.FitnessGoal,
	)
	return p, nil
}

// GetProgram loads a stored program.
func (s *Service) GetProgram(ctx context.Context, id uuid.UUID) (*models.WorkoutProgram, error) {
	p, err := s.store.GetProgram(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return p, nil
}

// AdaptProgram revises a stored program against its owner's recent feedback
// and stores the result as a new program. The original is left intact.
func (s *Service) AdaptProgram(ctx context.Context, programID uuid.UUID) (*models.WorkoutProgram, error) {
	orig, err := s.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.store.ListFeedback(ctx, orig.ProfileID, s.opts.FeedbackWindow)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}

	adapted := program.Adapt(orig, feedback)
	adapted.ID = uuid.New()
	adapted.CreatedAt = s.opts.Now().UTC()
	if err := s.store.SaveProgram(ctx, adapted); err != nil {
		return nil, fmt.Errorf("saving adapted program: %w", err)
	}
	s.log.Info("program adapted",
		"source_program_id", programID,
		"program_id", adapted.ID,
		"feedback", len(feedback),
	)
	return adapted, nil
}

// Fatigue estimates recovery for a profile. A nil lastRestDay falls back to
// the profile's stored value.
func (s *Service) Fatigue(ctx context.Context, profileID uuid.UUID, lastRestDay *time.Time) (*models.FatigueMetrics, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	logs, err := s.ListLogs(ctx, profileID, s.opts.LogWindow)
	if err != nil {
		return nil, err
	}
	if lastRestDay == nil {
		lastRestDay = profile.LastRestDay
	}
	return s.estimator.Estimate(logs, profile.ExperienceLevel, lastRestDay), nil
}

// Advice runs the overtraining advisor over recent feedback.
func (s *Service) Advice(ctx context.Context, profileID uuid.UUID) (*models.Assessment, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.store.ListFeedback(ctx, profileID, s.opts.FeedbackWindow)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	a := advisor.Check(profile, feedback)
	return &a, nil
}

// Dashboard is the combined recovery view of one profile.
type Dashboard struct {
	Profile    *models.UserProfile      `json:"profile"`
	Fatigue    *models.FatigueMetrics   `json:"fatigue"`
	Advice     models.Assessment        `json:"advice"`
	Program    *models.WorkoutProgram   `json:"program,omitempty"`
	RecentLogs []models.WorkoutLog      `json:"recent_logs"`
	Feedback   []models.WorkoutFeedback `json:"feedback"`
}

// Dashboard loads a profile's history concurrently and evaluates it.
func (s *Service) Dashboard(ctx context.Context, profileID uuid.UUID) (*Dashboard, error) {
	var (
		profile  *models.UserProfile
		logs     []models.WorkoutLog
		feedback []models.WorkoutFeedback
		latest   *models.WorkoutProgram
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.store.GetProfile(gctx, profileID)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		logs, err = s.store.ListWorkoutLogs(gctx, profileID, s.opts.LogWindow)
		if err != nil {
			return fmt.Errorf("listing workout logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		feedback, err = s.store.ListFeedback(gctx, profileID, s.opts.FeedbackWindow)
		if err != nil {
			return fmt.Errorf("listing feedback: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		latest, err = s.store.LatestProgram(gctx, profileID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("loading latest program: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Profile:    profile,
		Fatigue:    s.estimator.Estimate(logs, profile.ExperienceLevel, profile.LastRestDay),
		Advice:     advisor.Check(profile, feedback),
		Program:    latest,
		RecentLogs: logs,
		Feedback:   feedback,
	}, nil
}

func validateProfile(p *models.UserProfile) error {
	if !p.ExperienceLevel.Valid() {
		return fmt.Errorf("%w: unknown experience_level %q", ErrInvalid, p.ExperienceLevel)
	}
	if !p.FitnessGoal.Valid() {
		return fmt.Errorf("%w: unknown fitness_goal %q", ErrInvalid, p.FitnessGoal)
	}
	if p.DaysPerWeek < 0 || p.DaysPerWeek > 7 {
		return fmt.Errorf("%w: days_per_week %d out of range 0-7", ErrInvalid, p.DaysPerWeek)
	}
	return nil
}

func validateScale(field string, v int) error {
	if v < 1 || v > 10 {
		return fmt.Errorf("%w: %s %d out of range 1-10", ErrInvalid, field, v)
	}
	return nil
}
