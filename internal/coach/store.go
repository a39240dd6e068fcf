package coach

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

var (
	// ErrNotFound is wrapped by stores when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid is wrapped when input fails validation.
	ErrInvalid = errors.New("invalid input")
)

// ProfileStore persists user profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *models.UserProfile) error
	UpdateProfile(ctx context.Context, p *models.UserProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

// WorkoutLogStore persists the append-only training history.
type WorkoutLogStore interface {
	InsertWorkoutLog(ctx context.Context, l *models.WorkoutLog) error
	// ListWorkoutLogs returns up to limit logs, newest first.
	ListWorkoutLogs(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutLog, error)
}

// FeedbackStore persists post-workout questionnaires.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, f *models.WorkoutFeedback) error
	// ListFeedback returns up to limit entries, newest first.
	ListFeedback(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutFeedback, error)
}

// ProgramStore persists generated and adapted programs.
type ProgramStore interface {
	SaveProgram(ctx context.Context, p *models.WorkoutProgram) error
	GetProgram(ctx context.Context, id uuid.UUID) (*models.WorkoutProgram, error)
	LatestProgram(ctx context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error)
}

// Store is everything the Service needs from persistence.
type Store interface {
	ProfileStore
	WorkoutLogStore
	FeedbackStore
	ProgramStore
}
