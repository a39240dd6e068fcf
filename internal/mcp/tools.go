package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// profileID reads the required profile_id argument.
func profileID(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("profile_id")
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("profile_id parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("profile_id must be a UUID")
	}
	return id, nil
}

// --- Tool definitions ---

var toolGetFatigue = mcp.NewTool("get_fatigue",
	mcp.WithDescription("Estimate current fatigue from the profile's recent workout logs. Returns overall and nervous-system fatigue (0-10), per-muscle fatigue and recovery percentage, overtraining risk, recommended rest days, warnings and recommendations."),
	mcp.WithString("profile_id", mcp.Required(), mcp.Description("Profile UUID")),
	mcp.WithString("last_rest_day", mcp.Description("Date of the last full rest day (ISO 8601 or YYYY-MM-DD). Defaults to the value stored on the profile.")),
)

var toolGetAdvice = mcp.NewTool("get_advice",
	mcp.WithDescription("Check recent post-workout feedback for overtraining (high exertion with low energy) and recurring pain, plus advice for the profile's experience level."),
	mcp.WithString("profile_id", mcp.Required(), mcp.Description("Profile UUID")),
)

var toolGenerateProgram = mcp.NewTool("generate_program",
	mcp.WithDescription("Generate and store a new four-week program from the profile's experience level, goal, training days and injuries."),
	mcp.WithString("profile_id", mcp.Required(), mcp.Description("Profile UUID")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises, optionally restricted to one muscle group."),
	mcp.WithString("group", mcp.Description("Muscle group"), mcp.Enum("chest", "back", "legs", "shoulders", "arms", "core")),
)

var toolGetTemplate = mcp.NewTool("get_template",
	mcp.WithDescription("Get the program template (days per week, workout rotation, sets, rep range, rest, cardio minutes, deload frequency and fatigue limits) for an experience level and goal."),
	mcp.WithString("level", mcp.Required(), mcp.Description("Experience level"), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Fitness goal"), mcp.Enum("fat_loss", "muscle_gain", "endurance", "strength", "general_fitness")),
)

var toolFindSplits = mcp.NewTool("find_specialized_templates",
	mcp.WithDescription("Find specialized training splits (e.g. push-pull-legs, upper-lower, powerlifting) with their day-by-day schedules."),
	mcp.WithString("category", mcp.Description("Category, e.g. strength, hypertrophy, powerlifting")),
	mcp.WithString("split", mcp.Description("Split length, e.g. 3-day")),
	mcp.WithString("level", mcp.Description("Experience level"), mcp.Enum("beginner", "intermediate", "advanced")),
)

// --- Tool handlers ---

// notFound is the tool error shown when a data source reports a missing record.
var notFound = map[string]string{
	"get_fatigue":                "profile not found",
	"get_advice":                 "profile not found",
	"generate_program":           "profile not found",
	"list_exercises":             "exercise catalog not available",
	"get_template":               "template not found",
	"find_specialized_templates": "specialized template not found",
}

// dsError turns a data source error into a tool error. Not-found is
// expected input, anything else is logged.
func (h *handlers) dsError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, coach.ErrNotFound) || errors.Is(err, catalog.ErrMissingTemplate) {
		if msg, ok := notFound[tool]; ok {
			return mcp.NewToolResultError(msg)
		}
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func jsonResult(v any) *mcp.CallToolResult {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed")
	}
	return result
}

func (h *handlers) getFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := profileID(req)
	if bad != nil {
		return bad, nil
	}

	var lastRest *time.Time
	if s := req.GetString("last_rest_day", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		lastRest = &t
	}

	m, err := h.ds.Fatigue(ctx, id, lastRest)
	if err != nil {
		return h.dsError("get_fatigue", err), nil
	}
	return jsonResult(m), nil
}

func (h *handlers) getAdvice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := profileID(req)
	if bad != nil {
		return bad, nil
	}
	a, err := h.ds.Advice(ctx, id)
	if err != nil {
		return h.dsError("get_advice", err), nil
	}
	return jsonResult(a), nil
}

func (h *handlers) generateProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := profileID(req)
	if bad != nil {
		return bad, nil
	}
	p, err := h.ds.GenerateProgram(ctx, id)
	if err != nil {
		return h.dsError("generate_program", err), nil
	}
	return jsonResult(p), nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.Exercises(ctx, req.GetString("group", ""))
	if err != nil {
		return h.dsError("list_exercises", err), nil
	}
	return jsonResult(exercises), nil
}

func (h *handlers) getTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := models.ExperienceLevel(req.GetString("level", ""))
	goal := models.FitnessGoal(req.GetString("goal", ""))
	if !level.Valid() || !goal.Valid() {
		return mcp.NewToolResultError("level and goal must both be valid"), nil
	}
	t, err := h.ds.Template(ctx, level, goal)
	if err != nil {
		return h.dsError("get_template", err), nil
	}
	return jsonResult(t), nil
}

func (h *handlers) findSplits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	splits, err := h.ds.Specialized(ctx, catalog.SpecializedFilter{
		Category: req.GetString("category", ""),
		Split:    req.GetString("split", ""),
		Level:    models.ExperienceLevel(req.GetString("level", "")),
	})
	if err != nil {
		return h.dsError("find_specialized_templates", err), nil
	}
	return jsonResult(splits), nil
}
