package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

// DataSource abstracts the coach for MCP tools. Both Local (in-process) and
// HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Fatigue(ctx context.Context, profileID uuid.UUID, lastRestDay *time.Time) (*models.FatigueMetrics, error)
	Advice(ctx context.Context, profileID uuid.UUID) (*models.Assessment, error)
	GenerateProgram(ctx context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error)
	Exercises(ctx context.Context, group string) ([]models.ExerciseDefinition, error)
	Template(ctx context.Context, level models.ExperienceLevel, goal models.FitnessGoal) (*models.TemplateSpec, error)
	Templates(ctx context.Context) (models.TemplateTable, error)
	Specialized(ctx context.Context, f catalog.SpecializedFilter) ([]models.SpecializedTemplate, error)
}

// Local serves MCP requests from an in-process coach.Service.
type Local struct {
	svc *coach.Service
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps svc.
func NewLocal(svc *coach.Service) *Local {
	return &Local{svc: svc}
}

func (l *Local) Fatigue(ctx context.Context, profileID uuid.UUID, lastRestDay *time.Time) (*models.FatigueMetrics, error) {
	return l.svc.Fatigue(ctx, profileID, lastRestDay)
}

func (l *Local) Advice(ctx context.Context, profileID uuid.UUID) (*models.Assessment, error) {
	return l.svc.Advice(ctx, profileID)
}

func (l *Local) GenerateProgram(ctx context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error) {
	return l.svc.GenerateProgram(ctx, profileID)
}

func (l *Local) Exercises(_ context.Context, group string) ([]models.ExerciseDefinition, error) {
	if group == "" {
		return l.svc.Catalog().Exercises(), nil
	}
	return l.svc.Catalog().ByGroup(group), nil
}

func (l *Local) Template(_ context.Context, level models.ExperienceLevel, goal models.FitnessGoal) (*models.TemplateSpec, error) {
	t, err := l.svc.Catalog().Template(level, goal)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (l *Local) Templates(context.Context) (models.TemplateTable, error) {
	return l.svc.Catalog().Table(), nil
}

func (l *Local) Specialized(_ context.Context, f catalog.SpecializedFilter) ([]models.SpecializedTemplate, error) {
	return l.svc.Catalog().Specialized(f), nil
}
