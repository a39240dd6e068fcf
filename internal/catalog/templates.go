package catalog

import (
	"fmt"
	"slices"

	"github.com/claude/repcoach/internal/models"
)

// Template returns the prescription for a level and goal.
func (c *Catalog) Template(level models.ExperienceLevel, goal models.FitnessGoal) (models.TemplateSpec, error) {
	t, ok := c.templates[level][goal]
	if !ok {
		return models.TemplateSpec{}, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, level, goal)
	}
	t.WorkoutTypes = slices.Clone(t.WorkoutTypes)
	t.Notes = slices.Clone(t.Notes)
	if t.FatigueLimits != nil {
		fl := *t.FatigueLimits
		t.FatigueLimits = &fl
	}
	return t, nil
}

// Table returns a copy of the whole level by goal template table.
func (c *Catalog) Table() models.TemplateTable {
	out := models.TemplateTable{}
	for _, level := range models.ExperienceLevels {
		out[level] = map[models.FitnessGoal]models.TemplateSpec{}
		for _, goal := range models.FitnessGoals {
			// validateTemplates guarantees every pair exists.
			t, _ := c.Template(level, goal)
			out[level][goal] = t
		}
	}
	return out
}

// WorkoutTypes returns every distinct workout type named by the template
// table, in level, goal, rotation order.
func (c *Catalog) WorkoutTypes() []string {
	var out []string
	for _, level := range models.ExperienceLevels {
		for _, goal := range models.FitnessGoals {
			for _, wt := range c.templates[level][goal].WorkoutTypes {
				if !slices.Contains(out, wt) {
					out = append(out, wt)
				}
			}
		}
	}
	return out
}

// SpecializedFilter narrows Specialized. Empty fields match everything.
type SpecializedFilter struct {
	Category string
	Split    string
	Level    models.ExperienceLevel
}

func (f SpecializedFilter) match(t *models.SpecializedTemplate) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Split != "" && t.Split != f.Split {
		return false
	}
	if f.Level != "" && t.Level != f.Level {
		return false
	}
	return true
}

// Specialized returns the split templates matching f in catalog order.
func (c *Catalog) Specialized(f SpecializedFilter) []models.SpecializedTemplate {
	out := []models.SpecializedTemplate{}
	for i := range c.specialized {
		if f.match(&c.specialized[i]) {
			out = append(out, cloneSpecialized(c.specialized[i]))
		}
	}
	return out
}

// SpecializedByID returns one split template.
func (c *Catalog) SpecializedByID(id string) (models.SpecializedTemplate, bool) {
	for _, t := range c.specialized {
		if t.ID == id {
			return cloneSpecialized(t), true
		}
	}
	return models.SpecializedTemplate{}, false
}

func cloneSpecialized(t models.SpecializedTemplate) models.SpecializedTemplate {
	days := make([]models.SplitDay, len(t.Schedule))
	for i, d := range t.Schedule {
		d.Exercises = slices.Clone(d.Exercises)
		days[i] = d
	}
	t.Schedule = days
	t.Principles = slices.Clone(t.Principles)
	t.Notes = slices.Clone(t.Notes)
	return t
}
