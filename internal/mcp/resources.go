package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/liftcast/internal/models"
	"github.com/claude/liftcast/internal/sessions"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentWorkoutDays = 14

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	hist, err := h.src.History(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, hist.Exercises)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	hist, err := h.src.History(ctx)
	if err != nil {
		return nil, err
	}

	start := models.Day(time.Now()).AddDate(0, 0, -recentWorkoutDays)
	workouts := make([]models.Workout, 0)
	for _, w := range hist.Workouts {
		if !w.Date.Before(start) {
			workouts = append(workouts, w)
		}
	}

	return jsonContents(req.Params.URI, map[string]any{
		"since":    start.Format("2006-01-02"),
		"workouts": workouts,
		"days":     sessions.ForWorkouts(hist, start),
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
