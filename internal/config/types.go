package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	"github.com/MaryEjairu/InstaAutomator/internal/executor"
	"github.com/MaryEjairu/InstaAutomator/internal/planner"
	"github.com/MaryEjairu/InstaAutomator/internal/storage"
)

type Config struct {
	Logging    LoggingConfig    `json:"logging"`
	Automation AutomationConfig `json:"automation"`

	// Executor tunes the dry-run executor. Omitted means all attempts succeed.
	Executor *ExecutorConfig `json:"executor,omitempty"`

	Storage   *StorageConfig   `json:"storage,omitempty"`
	Schedules []ScheduleConfig `json:"schedules,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// AutomationConfig mirrors automation.Config with wire-friendly types.
//
// All durations are Go duration strings (e.g. "90s", "15m", "1h").
type AutomationConfig struct {
	// Windows are rolling-window ceilings. Kind "any" binds every kind.
	Windows []WindowConfig `json:"windows"`

	// Pacing maps kind name ("like", "comment", "message") to a delay range.
	Pacing map[string]PacingConfig `json:"pacing"`

	BackoffGrowth float64 `json:"backoff_growth"`
	BackoffMax    float64 `json:"backoff_max"`

	// FailureCeiling halts a session after this many consecutive hard
	// failures. 0 disables the check.
	FailureCeiling int `json:"failure_ceiling,omitempty"`
	// SessionMax caps attempts per session. 0 disables the cap.
	SessionMax int `json:"session_max,omitempty"`

	// Seed pins the pacing jitter (useful for rehearsing a plan).
	Seed int64 `json:"seed,omitempty"`
}

type WindowConfig struct {
	Kind   string `json:"kind"` // "like", "comment", "message" or "any"
	Window string `json:"window"`
	Max    int    `json:"max"`
}

type PacingConfig struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// ExecutorConfig tunes the simulated executor. Probabilities are in [0, 1].
type ExecutorConfig struct {
	MaxPerSec       int     `json:"max_per_sec,omitempty"`
	RateLimitedRate float64 `json:"rate_limited_rate,omitempty"`
	HardFailRate    float64 `json:"hard_fail_rate,omitempty"`
	SoftFailRate    float64 `json:"soft_fail_rate,omitempty"`
	Seed            int64   `json:"seed,omitempty"`
}

// StorageConfig controls the outcome archive.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./outcomes" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// ScheduleConfig feeds a recurring batch of actions into the session.
type ScheduleConfig struct {
	Name    string   `json:"name"`
	Spec    string   `json:"spec"` // cron spec or @every duration
	Kind    string   `json:"kind"`
	Targets []string `json:"targets"`
	Payload string   `json:"payload,omitempty"`
}

// SessionConfig converts the wire form into the session config, resolving
// kind names and duration strings. Validation beyond shape is left to
// automation.Config.Validate.
func (c *Config) SessionConfig() (automation.Config, error) {
	var out automation.Config
	a := c.Automation
	for i, w := range a.Windows {
		kind, err := parseWindowKind(w.Kind)
		if err != nil {
			return out, fmt.Errorf("automation.windows[%d]: %w", i, err)
		}
		d, err := ParseDurationField(fmt.Sprintf("automation.windows[%d].window", i), w.Window)
		if err != nil {
			return out, err
		}
		out.Windows = append(out.Windows, automation.RateWindow{Kind: kind, Window: d, Max: w.Max})
	}
	if len(a.Pacing) > 0 {
		out.Pacing = make(map[automation.Kind]automation.PacingRange, len(a.Pacing))
	}
	for name, p := range a.Pacing {
		kind, err := automation.ParseKind(name)
		if err != nil {
			return out, fmt.Errorf("automation.pacing: %w", err)
		}
		min, err := ParseDurationField("automation.pacing."+name+".min", p.Min)
		if err != nil {
			return out, err
		}
		max, err := ParseDurationField("automation.pacing."+name+".max", p.Max)
		if err != nil {
			return out, err
		}
		out.Pacing[kind] = automation.PacingRange{Min: min, Max: max}
	}
	out.BackoffGrowth = a.BackoffGrowth
	out.BackoffMax = a.BackoffMax
	out.FailureCeiling = a.FailureCeiling
	out.SessionMax = a.SessionMax
	out.Seed = a.Seed
	return out, nil
}

// ArchiveConfig converts the wire form into the archive config. A nil
// section disables the archive.
func (c *Config) ArchiveConfig() (storage.Config, error) {
	if c.Storage == nil {
		return storage.Config{}, nil
	}
	bt, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		Driver:      c.Storage.Driver,
		Path:        c.Storage.Path,
		BusyTimeout: bt,
	}, nil
}

// PlannerSchedules converts the wire schedules into planner definitions.
func (c *Config) PlannerSchedules() ([]planner.Schedule, error) {
	out := make([]planner.Schedule, 0, len(c.Schedules))
	for i, s := range c.Schedules {
		kind, err := automation.ParseKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("schedules[%d]: %w", i, err)
		}
		out = append(out, planner.Schedule{
			Name:    s.Name,
			Spec:    s.Spec,
			Kind:    kind,
			Targets: s.Targets,
			Payload: s.Payload,
		})
	}
	return out, nil
}

// DryRun converts the executor section. A nil section yields a simulator
// that always succeeds.
func (c *Config) DryRun() executor.DryRunConfig {
	if c.Executor == nil {
		return executor.DryRunConfig{}
	}
	return executor.DryRunConfig{
		MaxPerSec:       c.Executor.MaxPerSec,
		RateLimitedRate: c.Executor.RateLimitedRate,
		HardFailRate:    c.Executor.HardFailRate,
		SoftFailRate:    c.Executor.SoftFailRate,
		Seed:            c.Executor.Seed,
	}
}

func parseWindowKind(name string) (automation.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(name), "any") {
		return automation.KindAny, nil
	}
	return automation.ParseKind(name)
}

// ParseDurationField parses a duration string out of the config, naming the
// field in the error. Empty means unset and parses to zero; the caller
// decides what zero means for its field.
func ParseDurationField(field, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", field)
	}
	return d, nil
}
