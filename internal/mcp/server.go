// Package mcp exposes the training analyses as MCP tools.
package mcp

import (
	"log/slog"

	"github.com/claude/liftcast/internal/analysis"
	"github.com/claude/liftcast/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered. src
// backs the resources; svc answers the tools.
func New(svc *analysis.Service, src analysis.HistorySource, windows config.Windows, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftcast", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("liftcast strength training analyst. Forecast 1RM progress, estimate goal dates, detect unusual sessions, score training health and balance, and suggest the next workout or a deload. Exercises can be named by catalog name, alias or ID."),
	)

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &handlers{svc: svc, src: src, windows: windows, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolStrengthForecast, Handler: h.strengthForecast},
		server.ServerTool{Tool: toolGoalDate, Handler: h.goalDate},
		server.ServerTool{Tool: toolOneRepMax, Handler: h.oneRepMax},
		server.ServerTool{Tool: toolExerciseAnomalies, Handler: h.exerciseAnomalies},
		server.ServerTool{Tool: toolAllAnomalies, Handler: h.allAnomalies},
		server.ServerTool{Tool: toolHealthScore, Handler: h.healthScore},
		server.ServerTool{Tool: toolTrainingBalance, Handler: h.trainingBalance},
		server.ServerTool{Tool: toolNextWorkout, Handler: h.nextWorkout},
		server.ServerTool{Tool: toolDeloadCheck, Handler: h.deloadCheck},
		server.ServerTool{Tool: toolExerciseRecommendations, Handler: h.exerciseRecommendations},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc     *analysis.Service
	src     analysis.HistorySource
	windows config.Windows
	log     *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"liftcast://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every known exercise with muscle group, equipment, compound flag and aliases"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"liftcast://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days with their working set counts and volume"),
	mcp.WithMIMEType("application/json"),
)
