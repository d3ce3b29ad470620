// Package config loads and saves navshell's workspace-local settings,
// stored at <workspaceRoot>/.navshell/config.json with an optional
// .navshell/config.yaml overlay for values a user prefers to hand-edit.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds navshell's tunable defaults. Every field has a sensible
// zero-value fallback applied by Load, so a missing or partial config
// file is never an error.
type Config struct {
	// ForegroundBudget is how long a foreground-started process runs
	// before the supervisor auto-promotes it to background.
	ForegroundBudget time.Duration `json:"foreground_budget_ms" yaml:"foreground_budget_ms"`

	// LogThrottleInterval is a stored log-throttle setting. The shell
	// supervisor does not read it; it throttles a process's Output
	// events with its own fixed 250 ms interval.
	LogThrottleInterval time.Duration `json:"log_throttle_ms" yaml:"log_throttle_ms"`

	// IndexPath is where the navigator's persisted snapshot lives,
	// relative to the workspace root.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// Planner defaults applied before a request's own profile/options.
	Planner PlannerDefaults `json:"planner" yaml:"planner"`
}

// PlannerDefaults seeds a SearchRequest before profile and explicit
// options are applied.
type PlannerDefaults struct {
	DefaultProfile string `json:"default_profile" yaml:"default_profile"`
	DefaultLimit   int    `json:"default_limit" yaml:"default_limit"`
}

const (
	defaultForegroundBudget    = 60 * time.Second
	defaultLogThrottleInterval = 5 * time.Second
	defaultIndexPath           = ".navshell/index.bin"
	defaultProfile             = "balanced"
	defaultLimit               = 20
)

// Default returns the built-in configuration used when no file is present.
func Default() Config {
	return Config{
		ForegroundBudget:    defaultForegroundBudget,
		LogThrottleInterval: defaultLogThrottleInterval,
		IndexPath:           defaultIndexPath,
		Planner: PlannerDefaults{
			DefaultProfile: defaultProfile,
			DefaultLimit:   defaultLimit,
		},
	}
}

type jsonConfig struct {
	ForegroundBudgetMs    *int64           `json:"foreground_budget_ms"`
	LogThrottleIntervalMs *int64           `json:"log_throttle_ms"`
	IndexPath             *string          `json:"index_path"`
	Planner               *plannerOverlay  `json:"planner"`
}

type yamlConfig struct {
	ForegroundBudgetMs    *int64          `yaml:"foreground_budget_ms"`
	LogThrottleIntervalMs *int64          `yaml:"log_throttle_ms"`
	IndexPath             *string         `yaml:"index_path"`
	Planner               *plannerOverlay `yaml:"planner"`
}

type plannerOverlay struct {
	DefaultProfile *string `json:"default_profile" yaml:"default_profile"`
	DefaultLimit   *int    `json:"default_limit" yaml:"default_limit"`
}

func jsonPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".navshell", "config.json")
}

func yamlPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".navshell", "config.yaml")
}

// Load reads the workspace's config.json, applying any config.yaml overlay
// on top, and fills every unset field with its default. A missing file in
// either location is not an error.
func Load(workspaceRoot string) (Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(jsonPath(workspaceRoot)); err == nil {
		var jc jsonConfig
		if err := json.Unmarshal(data, &jc); err != nil {
			return cfg, err
		}
		applyJSON(&cfg, &jc)
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if data, err := os.ReadFile(yamlPath(workspaceRoot)); err == nil {
		var yc yamlConfig
		if err := yaml.Unmarshal(data, &yc); err != nil {
			return cfg, err
		}
		applyYAML(&cfg, &yc)
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	return cfg, nil
}

func applyJSON(cfg *Config, jc *jsonConfig) {
	if jc.ForegroundBudgetMs != nil {
		cfg.ForegroundBudget = time.Duration(*jc.ForegroundBudgetMs) * time.Millisecond
	}
	if jc.LogThrottleIntervalMs != nil {
		cfg.LogThrottleInterval = time.Duration(*jc.LogThrottleIntervalMs) * time.Millisecond
	}
	if jc.IndexPath != nil {
		cfg.IndexPath = *jc.IndexPath
	}
	applyPlannerOverlay(&cfg.Planner, jc.Planner)
}

func applyYAML(cfg *Config, yc *yamlConfig) {
	if yc.ForegroundBudgetMs != nil {
		cfg.ForegroundBudget = time.Duration(*yc.ForegroundBudgetMs) * time.Millisecond
	}
	if yc.LogThrottleIntervalMs != nil {
		cfg.LogThrottleInterval = time.Duration(*yc.LogThrottleIntervalMs) * time.Millisecond
	}
	if yc.IndexPath != nil {
		cfg.IndexPath = *yc.IndexPath
	}
	applyPlannerOverlay(&cfg.Planner, yc.Planner)
}

func applyPlannerOverlay(dst *PlannerDefaults, overlay *plannerOverlay) {
	if overlay == nil {
		return
	}
	if overlay.DefaultProfile != nil {
		dst.DefaultProfile = *overlay.DefaultProfile
	}
	if overlay.DefaultLimit != nil {
		dst.DefaultLimit = *overlay.DefaultLimit
	}
}

// Save writes cfg to the workspace's config.json as indented JSON,
// creating .navshell if needed.
func Save(workspaceRoot string, cfg Config) error {
	dir := filepath.Join(workspaceRoot, ".navshell")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	out := jsonConfig{
		ForegroundBudgetMs:    int64Ptr(cfg.ForegroundBudget.Milliseconds()),
		LogThrottleIntervalMs: int64Ptr(cfg.LogThrottleInterval.Milliseconds()),
		IndexPath:             &cfg.IndexPath,
		Planner: &plannerOverlay{
			DefaultProfile: &cfg.Planner.DefaultProfile,
			DefaultLimit:   &cfg.Planner.DefaultLimit,
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(jsonPath(workspaceRoot), data, 0o644)
}

func int64Ptr(v int64) *int64 { return &v }
