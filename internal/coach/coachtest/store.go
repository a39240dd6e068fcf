// Package coachtest provides an in-memory coach.Store for tests.
package coachtest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

var _ coach.Store = (*Store)(nil)

// Store keeps rows in maps guarded by a mutex. Reads return copies.
type Store struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]models.UserProfile
	logs     map[uuid.UUID][]models.WorkoutLog
	feedback map[uuid.UUID][]models.WorkoutFeedback
	programs map[uuid.UUID]*models.WorkoutProgram
	order    []uuid.UUID // program insertion order

	// Err, when set, is returned by every method.
	Err error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		profiles: map[uuid.UUID]models.UserProfile{},
		logs:     map[uuid.UUID][]models.WorkoutLog{},
		feedback: map[uuid.UUID][]models.WorkoutFeedback{},
		programs: map[uuid.UUID]*models.WorkoutProgram{},
	}
}

func (s *Store) CreateProfile(_ context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.profiles[p.ID]; ok {
		return fmt.Errorf("profile %s already exists", p.ID)
	}
	s.profiles[p.ID] = *p
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.profiles[p.ID]; !ok {
		return fmt.Errorf("profile %s: %w", p.ID, coach.ErrNotFound)
	}
	s.profiles[p.ID] = *p
	return nil
}

func (s *Store) GetProfile(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, coach.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) InsertWorkoutLog(_ context.Context, l *models.WorkoutLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.logs[l.ProfileID] = append(s.logs[l.ProfileID], *l)
	return nil
}

func (s *Store) ListWorkoutLogs(_ context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := slices.Clone(s.logs[profileID])
	slices.SortStableFunc(out, func(a, b models.WorkoutLog) int { return b.Date.Compare(a.Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) InsertFeedback(_ context.Context, f *models.WorkoutFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.feedback[f.ProfileID] = append(s.feedback[f.ProfileID], *f)
	return nil
}

func (s *Store) ListFeedback(_ context.Context, profileID uuid.UUID, limit int) ([]models.WorkoutFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := slices.Clone(s.feedback[profileID])
	slices.SortStableFunc(out, func(a, b models.WorkoutFeedback) int {
		return b.CompletionDate.Compare(a.CompletionDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SaveProgram(_ context.Context, p *models.WorkoutProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.programs[p.ID] = p.Clone()
	s.order = append(s.order, p.ID)
	return nil
}

func (s *Store) GetProgram(_ context.Context, id uuid.UUID) (*models.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.programs[id]
	if !ok {
		return nil, fmt.Errorf("program %s: %w", id, coach.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *Store) LatestProgram(_ context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := len(s.order) - 1; i >= 0; i-- {
		if p := s.programs[s.order[i]]; p.ProfileID == profileID {
			return p.Clone(), nil
		}
	}
	return nil, fmt.Errorf("latest program for %s: %w", profileID, coach.ErrNotFound)
}
