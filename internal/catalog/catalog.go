// Package catalog holds the static reference data the coaching engine reads:
// the exercise catalog, the level x goal template table and the specialized
// split templates. All of it is embedded, parsed once and never mutated.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/claude/repcoach/internal/models"
)

var (
	//go:embed data/exercises.yaml
	exercisesYAML []byte

	//go:embed data/templates.yaml
	templatesYAML []byte

	//go:embed data/specialized.yaml
	specializedYAML []byte
)

// ErrMissingTemplate is returned when the template table lacks a level/goal pair.
var ErrMissingTemplate = errors.New("missing template")

// Catalog is the immutable exercise catalog plus template repository.
// It is safe for concurrent use.
type Catalog struct {
	exercises []models.ExerciseDefinition
	byName    map[string]int   // normalized name -> index
	byGroup   map[string][]int // group -> indexes, catalog order
	groups    []string

	templates   map[models.ExperienceLevel]map[models.FitnessGoal]models.TemplateSpec
	specialized []models.SpecializedTemplate
}

// Load parses the embedded reference data.
func Load() (*Catalog, error) {
	return Parse(exercisesYAML, templatesYAML, specializedYAML)
}

// Parse builds a Catalog from raw YAML documents and validates it.
func Parse(exercises, templates, specialized []byte) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]int),
		byGroup: make(map[string][]int),
	}

	if err := yaml.Unmarshal(exercises, &c.exercises); err != nil {
		return nil, fmt.Errorf("parsing exercises: %w", err)
	}
	if err := yaml.Unmarshal(templates, &c.templates); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if err := yaml.Unmarshal(specialized, &c.specialized); err != nil {
		return nil, fmt.Errorf("parsing specialized templates: %w", err)
	}

	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.validateTemplates(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	for i, ex := range c.exercises {
		key := normalize(ex.Name)
		if key == "" {
			return fmt.Errorf("exercise %d: name is required", i)
		}
		if _, dup := c.byName[key]; dup {
			return fmt.Errorf("exercise %q: duplicate name", ex.Name)
		}
		if ex.FatigueFactor < 1 || ex.FatigueFactor > 10 {
			return fmt.Errorf("exercise %q: fatigue_factor %d out of range 1-10", ex.Name, ex.FatigueFactor)
		}
		if len(ex.Groups) == 0 {
			return fmt.Errorf("exercise %q: at least one group is required", ex.Name)
		}
		c.byName[key] = i
		for _, g := range ex.Groups {
			if _, ok := c.byGroup[g]; !ok {
				c.groups = append(c.groups, g)
			}
			c.byGroup[g] = append(c.byGroup[g], i)
		}
	}
	return nil
}

func (c *Catalog) validateTemplates() error {
	for _, level := range models.ExperienceLevels {
		for _, goal := range models.FitnessGoals {
			t, ok := c.templates[level][goal]
			if !ok {
				return fmt.Errorf("%w: %s/%s", ErrMissingTemplate, level, goal)
			}
			if t.DaysPerWeek < 1 || t.DaysPerWeek > 7 {
				return fmt.Errorf("template %s/%s: days_per_week %d out of range 1-7", level, goal, t.DaysPerWeek)
			}
			if len(t.WorkoutTypes) == 0 {
				return fmt.Errorf("template %s/%s: workout_types is empty", level, goal)
			}
		}
	}
	for _, s := range c.specialized {
		if !s.Level.Valid() {
			return fmt.Errorf("specialized template %q: unknown level %q", s.ID, s.Level)
		}
	}
	return nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup finds an exercise by case-insensitive exact name.
func (c *Catalog) Lookup(name string) (models.ExerciseDefinition, bool) {
	i, ok := c.byName[normalize(name)]
	if !ok {
		return models.ExerciseDefinition{}, false
	}
	return cloneExercise(c.exercises[i]), true
}

// ByGroup returns the exercises of a muscle-group bucket in catalog order.
// Unknown groups yield an empty slice.
func (c *Catalog) ByGroup(group string) []models.ExerciseDefinition {
	idx := c.byGroup[group]
	out := make([]models.ExerciseDefinition, len(idx))
	for i, j := range idx {
		out[i] = cloneExercise(c.exercises[j])
	}
	return out
}

// Exercises returns every exercise in catalog order.
func (c *Catalog) Exercises() []models.ExerciseDefinition {
	out := make([]models.ExerciseDefinition, len(c.exercises))
	for i, ex := range c.exercises {
		out[i] = cloneExercise(ex)
	}
	return out
}

// cloneExercise copies the slices of e so callers cannot reach catalog data.
func cloneExercise(e models.ExerciseDefinition) models.ExerciseDefinition {
	e.Groups = slices.Clone(e.Groups)
	e.PrimaryMuscles = slices.Clone(e.PrimaryMuscles)
	e.SecondaryMuscles = slices.Clone(e.SecondaryMuscles)
	e.Equipment = slices.Clone(e.Equipment)
	e.Alternatives = slices.Clone(e.Alternatives)
	return e
}

// Groups returns the muscle-group buckets in first-appearance order.
func (c *Catalog) Groups() []string {
	return slices.Clone(c.groups)
}
