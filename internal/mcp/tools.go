package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftcast/internal/analysis"
	"github.com/mark3labs/mcp-go/mcp"
)

func rangeDescription(what string, r analysis.Range, def int) string {
	return fmt.Sprintf("%s (%d-%d). Defaults to %d.", what, r.Min, r.Max, def)
}

// --- Tool definitions ---

var toolStrengthForecast = mcp.NewTool("predict_strength",
	mcp.WithDescription("Forecast an exercise's estimated 1RM. Fits a regression to every logged session and projects one point per expected future session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, alias or ID (e.g. 'bench press')")),
	mcp.WithNumber("days_ahead", mcp.Description(rangeDescription("How far ahead to forecast, in days", analysis.ForecastRange, analysis.DefaultForecastDays))),
)

var toolGoalDate = mcp.NewTool("predict_goal_date",
	mcp.WithDescription("Estimate when an exercise's 1RM will reach a target weight. Searches up to a year ahead, then falls back to the historical rate of gain."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, alias or ID")),
	mcp.WithNumber("target_weight", mcp.Required(), mcp.Description("Target 1RM")),
)

var toolOneRepMax = mcp.NewTool("calculate_1rm",
	mcp.WithDescription("Estimate a one-rep max from a weight and rep count. Reports every formula alongside the requested one."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps completed (1-30)")),
	mcp.WithString("formula", mcp.Description("Formula to use. Defaults to the configured calculator formula."), mcp.Enum("epley", "brzycki", "lombardi", "oconner", "mayhew", "average")),
)

var toolExerciseAnomalies = mcp.NewTool("detect_exercise_anomalies",
	mcp.WithDescription("Find unusual sessions of one exercise: performance drops and spikes, volume outliers, fatigue signals and long gaps."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, alias or ID")),
	mcp.WithNumber("days", mcp.Description(rangeDescription("Days of history to scan", analysis.ExerciseAnomalyRange, analysis.DefaultExerciseAnomalies))),
)

var toolAllAnomalies = mcp.NewTool("detect_anomalies",
	mcp.WithDescription("Scan daily totals across all exercises for anomalies and flag muscle groups with a lopsided share of the volume."),
	mcp.WithNumber("days", mcp.Description(rangeDescription("Days of history to scan", analysis.AllAnomalyRange, analysis.DefaultAllAnomalies))),
)

var toolHealthScore = mcp.NewTool("get_health_score",
	mcp.WithDescription("Score training health 0-100 from consistency, progress, volume and recovery, with recommendations."),
	mcp.WithNumber("days", mcp.Description(rangeDescription("Days to evaluate", analysis.HealthRange, analysis.DefaultHealthDays))),
)

var toolTrainingBalance = mcp.NewTool("get_training_balance",
	mcp.WithDescription("Working sets and volume per muscle group against weekly targets, with an overall balance score."),
	mcp.WithNumber("days", mcp.Description(rangeDescription("Days to analyze", analysis.BalanceRange, analysis.DefaultBalanceDays))),
)

var toolNextWorkout = mcp.NewTool("get_next_workout",
	mcp.WithDescription("Suggest what to train next based on the last two weeks: undertrained and recovered muscle groups, example exercises and groups to avoid."),
)

var toolDeloadCheck = mcp.NewTool("check_deload",
	mcp.WithDescription("Check whether a deload week is due from rising perceived exertion or a long run of workouts without a break."),
)

var toolExerciseRecommendations = mcp.NewTool("get_exercise_recommendations",
	mcp.WithDescription("List catalog exercises for a muscle group, compounds first."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Target muscle group"), mcp.Enum("chest", "back", "shoulders", "legs", "arms", "core", "other")),
	mcp.WithString("equipment", mcp.Description("Only exercises using this equipment (barbell, dumbbell, cable, machine, bodyweight)")),
	mcp.WithNumber("limit", mcp.Description(rangeDescription("Number of exercises", analysis.ExerciseLimitRange, analysis.DefaultExerciseLimit))),
)

// --- Tool handlers ---

func (h *handlers) strengthForecast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	out, err := h.svc.StrengthForecast(ctx, exercise, req.GetInt("days_ahead", h.windows.Forecast))
	return h.respond("predict_strength", out, err)
}

func (h *handlers) goalDate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	target, err := req.RequireFloat("target_weight")
	if err != nil {
		return mcp.NewToolResultError("target_weight parameter is required"), nil
	}
	out, err := h.svc.GoalDate(ctx, exercise, target)
	return h.respond("predict_goal_date", out, err)
}

func (h *handlers) oneRepMax(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	out, err := h.svc.OneRepMax(weight, reps, req.GetString("formula", ""))
	return h.respond("calculate_1rm", out, err)
}

func (h *handlers) exerciseAnomalies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	out, err := h.svc.ExerciseAnomalies(ctx, exercise, req.GetInt("days", h.windows.ExerciseAnomalies))
	return h.respond("detect_exercise_anomalies", out, err)
}

func (h *handlers) allAnomalies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.svc.AllAnomalies(ctx, req.GetInt("days", h.windows.AllAnomalies))
	return h.respond("detect_anomalies", out, err)
}

func (h *handlers) healthScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.svc.HealthScore(ctx, req.GetInt("days", h.windows.Health))
	return h.respond("get_health_score", out, err)
}

func (h *handlers) trainingBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.svc.Balance(ctx, req.GetInt("days", h.windows.Balance))
	return h.respond("get_training_balance", out, err)
}

func (h *handlers) nextWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.svc.NextWorkout(ctx)
	return h.respond("get_next_workout", out, err)
}

func (h *handlers) deloadCheck(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.svc.Deload(ctx)
	return h.respond("check_deload", out, err)
}

func (h *handlers) exerciseRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	out, err := h.svc.Exercises(ctx, group, req.GetString("equipment", ""), req.GetInt("limit", analysis.DefaultExerciseLimit))
	return h.respond("get_exercise_recommendations", out, err)
}

// respond renders an analysis result. Caller mistakes become tool errors
// the model can correct; anything else is logged first.
func (h *handlers) respond(tool string, out any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidArgument) || errors.Is(err, analysis.ErrExerciseNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError("analysis failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
