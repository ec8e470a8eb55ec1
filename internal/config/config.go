package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/claude/liftcast/internal/analysis"
	"github.com/claude/liftcast/internal/onerm"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DataConfig names the files the training log is loaded from.
type DataConfig struct {
	History  string   `yaml:"history"`
	AlphaCSV []string `yaml:"alpha_csv"`
	Catalog  string   `yaml:"catalog"`
}

type AnalysisConfig struct {
	ZThreshold        float64 `yaml:"z_threshold"`
	SessionFormula    string  `yaml:"session_formula"`
	CalculatorFormula string  `yaml:"calculator_formula"`
	Windows           Windows `yaml:"windows"`
}

// Windows are the default trailing windows, in days, used when a caller
// does not pass one.
type Windows struct {
	Forecast          int `yaml:"forecast"`
	ExerciseAnomalies int `yaml:"exercise_anomalies"`
	AllAnomalies      int `yaml:"all_anomalies"`
	Health            int `yaml:"health"`
	Balance           int `yaml:"balance"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Analysis: AnalysisConfig{
			ZThreshold:        2.0,
			SessionFormula:    "epley",
			CalculatorFormula: "average",
			Windows: Windows{
				Forecast:          analysis.DefaultForecastDays,
				ExerciseAnomalies: analysis.DefaultExerciseAnomalies,
				AllAnomalies:      analysis.DefaultAllAnomalies,
				Health:            analysis.DefaultHealthDays,
				Balance:           analysis.DefaultBalanceDays,
			},
		},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. An empty path skips the file. Env vars
// use the prefix LIFTCAST_ and underscore-separated paths:
//
//	LIFTCAST_LOG_LEVEL, LIFTCAST_LOG_FORMAT, LIFTCAST_LOG_FILE,
//	LIFTCAST_DATA_HISTORY, LIFTCAST_DATA_ALPHA_CSV (comma-separated),
//	LIFTCAST_DATA_CATALOG, LIFTCAST_Z_THRESHOLD,
//	LIFTCAST_SESSION_FORMULA, LIFTCAST_CALCULATOR_FORMULA
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTCAST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LIFTCAST_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LIFTCAST_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("LIFTCAST_DATA_HISTORY"); v != "" {
		cfg.Data.History = v
	}
	if v := os.Getenv("LIFTCAST_DATA_ALPHA_CSV"); v != "" {
		cfg.Data.AlphaCSV = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Data.AlphaCSV = append(cfg.Data.AlphaCSV, p)
			}
		}
	}
	if v := os.Getenv("LIFTCAST_DATA_CATALOG"); v != "" {
		cfg.Data.Catalog = v
	}
	if v := os.Getenv("LIFTCAST_Z_THRESHOLD"); v != "" {
		if z, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.ZThreshold = z
		}
	}
	if v := os.Getenv("LIFTCAST_SESSION_FORMULA"); v != "" {
		cfg.Analysis.SessionFormula = v
	}
	if v := os.Getenv("LIFTCAST_CALCULATOR_FORMULA"); v != "" {
		cfg.Analysis.CalculatorFormula = v
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	if !(c.Analysis.ZThreshold > 0) {
		return fmt.Errorf("analysis.z_threshold must be positive")
	}
	if _, _, err := c.Analysis.Formulas(); err != nil {
		return err
	}

	w := c.Analysis.Windows
	for _, chk := range []struct {
		name string
		v    int
		r    analysis.Range
	}{
		{"analysis.windows.forecast", w.Forecast, analysis.ForecastRange},
		{"analysis.windows.exercise_anomalies", w.ExerciseAnomalies, analysis.ExerciseAnomalyRange},
		{"analysis.windows.all_anomalies", w.AllAnomalies, analysis.AllAnomalyRange},
		{"analysis.windows.health", w.Health, analysis.HealthRange},
		{"analysis.windows.balance", w.Balance, analysis.BalanceRange},
	} {
		if chk.v < chk.r.Min || chk.v > chk.r.Max {
			return fmt.Errorf("%s must be between %d and %d", chk.name, chk.r.Min, chk.r.Max)
		}
	}
	return nil
}

// Formulas parses the session and calculator formula names.
func (a AnalysisConfig) Formulas() (session, calculator onerm.Formula, err error) {
	session, err = onerm.ParseFormulaOr(a.SessionFormula, onerm.Epley)
	if err != nil {
		return 0, 0, fmt.Errorf("analysis.session_formula: %w", err)
	}
	calculator, err = onerm.ParseFormulaOr(a.CalculatorFormula, onerm.Average)
	if err != nil {
		return 0, 0, fmt.Errorf("analysis.calculator_formula: %w", err)
	}
	return session, calculator, nil
}

// Options converts the analysis section into service options.
func (a AnalysisConfig) Options() ([]analysis.Option, error) {
	session, calculator, err := a.Formulas()
	if err != nil {
		return nil, err
	}
	return []analysis.Option{
		analysis.WithZThreshold(a.ZThreshold),
		analysis.WithSessionFormula(session),
		analysis.WithCalculatorFormula(calculator),
	}, nil
}
