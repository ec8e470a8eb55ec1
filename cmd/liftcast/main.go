package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/claude/liftcast/internal/analysis"
	"github.com/claude/liftcast/internal/app"
	flag "github.com/spf13/pflag"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// command is one subcommand. flags registers its flags and returns the
// function that runs it against the loaded log and the remaining args.
type command struct {
	summary string
	flags   func(fs *flag.FlagSet) func(ctx context.Context, svc *analysis.Service, args []string) (any, error)
}

var commands = map[string]command{
	"forecast": {
		summary: "forecast an exercise's 1RM",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			days := fs.IntP("days", "d", analysis.DefaultForecastDays, "days ahead to forecast")
			return func(ctx context.Context, svc *analysis.Service, args []string) (any, error) {
				ex, err := exerciseArg(args)
				if err != nil {
					return nil, err
				}
				return svc.StrengthForecast(ctx, ex, *days)
			}
		},
	},
	"goal": {
		summary: "estimate when an exercise reaches a target 1RM",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			target := fs.Float64P("target", "t", 0, "target 1RM (required)")
			return func(ctx context.Context, svc *analysis.Service, args []string) (any, error) {
				ex, err := exerciseArg(args)
				if err != nil {
					return nil, err
				}
				return svc.GoalDate(ctx, ex, *target)
			}
		},
	},
	"onerm": {
		summary: "estimate a 1RM from weight and reps",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			weight := fs.Float64P("weight", "w", 0, "weight lifted")
			reps := fs.IntP("reps", "r", 0, "reps completed")
			formula := fs.StringP("formula", "f", "", "formula (epley, brzycki, lombardi, oconner, mayhew, average)")
			return func(_ context.Context, svc *analysis.Service, _ []string) (any, error) {
				return svc.OneRepMax(*weight, *reps, *formula)
			}
		},
	},
	"anomalies": {
		summary: "detect unusual sessions, for one exercise or across the log",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			days := fs.IntP("days", "d", 0, "days to scan (default depends on scope)")
			return func(ctx context.Context, svc *analysis.Service, args []string) (any, error) {
				if len(args) == 0 {
					return svc.AllAnomalies(ctx, orDefault(*days, analysis.DefaultAllAnomalies))
				}
				ex, err := exerciseArg(args)
				if err != nil {
					return nil, err
				}
				return svc.ExerciseAnomalies(ctx, ex, orDefault(*days, analysis.DefaultExerciseAnomalies))
			}
		},
	},
	"health": {
		summary: "score overall training health",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			days := fs.IntP("days", "d", analysis.DefaultHealthDays, "days to evaluate")
			return func(ctx context.Context, svc *analysis.Service, _ []string) (any, error) {
				return svc.HealthScore(ctx, *days)
			}
		},
	},
	"balance": {
		summary: "working sets per muscle group against weekly targets",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			days := fs.IntP("days", "d", analysis.DefaultBalanceDays, "days to analyze")
			return func(ctx context.Context, svc *analysis.Service, _ []string) (any, error) {
				return svc.Balance(ctx, *days)
			}
		},
	},
	"next": {
		summary: "suggest the next workout",
		flags: func(*flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			return func(ctx context.Context, svc *analysis.Service, _ []string) (any, error) {
				return svc.NextWorkout(ctx)
			}
		},
	},
	"deload": {
		summary: "check whether a deload week is due",
		flags: func(*flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			return func(ctx context.Context, svc *analysis.Service, _ []string) (any, error) {
				return svc.Deload(ctx)
			}
		},
	},
	"exercises": {
		summary: "list exercises for a muscle group",
		flags: func(fs *flag.FlagSet) func(context.Context, *analysis.Service, []string) (any, error) {
			equipment := fs.StringP("equipment", "e", "", "only this equipment")
			limit := fs.IntP("limit", "n", analysis.DefaultExerciseLimit, "number of exercises")
			return func(ctx context.Context, svc *analysis.Service, args []string) (any, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("%w: expected one muscle group", analysis.ErrInvalidArgument)
				}
				return svc.Exercises(ctx, args[0], *equipment, *limit)
			}
		},
	},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("liftcast", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	configPath := global.StringP("config", "c", os.Getenv("LIFTCAST_CONFIG"), "path to config file")
	version := global.Bool("version", false, "print version and exit")
	global.Usage = func() { usage(global, stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if *version {
		fmt.Fprintln(stdout, "liftcast", Version)
		return 0
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(global, stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(global, stderr)
		return 2
	}
	fs := flag.NewFlagSet("liftcast "+rest[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	exec := cmd.flags(fs)
	if err := fs.Parse(rest[1:]); err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Load(ctx, *configPath, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer a.Close()

	out, err := exec(ctx, a.Service, fs.Args())
	if err != nil {
		a.Log.Error("command failed", "command", rest[0], "error", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		a.Log.Error("writing result", "error", err)
		return 1
	}
	return 0
}

func exerciseArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected one exercise name, alias or ID", analysis.ErrInvalidArgument)
	}
	return args[0], nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func usage(global *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: liftcast [--config FILE] <command> [flags] [args]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nGlobal flags:\n%s", global.FlagUsages())
}
