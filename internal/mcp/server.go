package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCoach training coach. Estimate fatigue and overtraining risk from logged workouts, get recovery advice, generate four-week programs, and browse the exercise catalog and program templates. Profile-scoped tools take a profile_id UUID."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetFatigue, Handler: h.getFatigue},
		server.ServerTool{Tool: toolGetAdvice, Handler: h.getAdvice},
		server.ServerTool{Tool: toolGenerateProgram, Handler: h.generateProgram},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetTemplate, Handler: h.getTemplate},
		server.ServerTool{Tool: toolFindSplits, Handler: h.findSplits},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resTemplates, Handler: h.templates},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"repcoach://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise with muscle groups, primary and secondary muscles, fatigue factor, recovery time and alternatives"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"repcoach://templates",
	"Program Templates",
	mcp.WithResourceDescription("Program templates keyed by experience level and fitness goal, plus the specialized splits"),
	mcp.WithMIMEType("application/json"),
)
