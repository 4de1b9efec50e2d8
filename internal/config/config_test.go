package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
)

const sampleYAML = `logging:
  level: debug
  console: true
automation:
  windows:
    - kind: any
      window: 1h
      max: 60
    - kind: like
      window: 10m
      max: 12
  pacing:
    like:
      min: 30s
      max: 90s
    comment:
      min: 1m
      max: 3m
  backoff_growth: 1.5
  backoff_max: 8
  failure_ceiling: 3
  session_max: 40
storage:
  driver: file
  path: ./outcomes
schedules:
  - name: morning-likes
    spec: "0 9 * * *"
    kind: like
    targets: [post-1, post-2]
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	m := NewConfigManager(writeConfig(t, "config.yaml", sampleYAML))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging: %+v", cfg.Logging)
	}
	if len(cfg.Automation.Windows) != 2 || cfg.Automation.Windows[0].Kind != "any" {
		t.Fatalf("windows: %+v", cfg.Automation.Windows)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("storage: %+v", cfg.Storage)
	}
	if len(cfg.Schedules) != 1 || cfg.Schedules[0].Name != "morning-likes" {
		t.Fatalf("schedules: %+v", cfg.Schedules)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	m := NewConfigManager(writeConfig(t, "config.yaml", "automation:\n  max_per_hour: 10\n"))
	if _, err := m.Parse(); err == nil {
		t.Fatalf("expected unknown-field error")
	}
}

func TestSessionConfigConversion(t *testing.T) {
	m := NewConfigManager(writeConfig(t, "config.yaml", sampleYAML))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sc, err := cfg.SessionConfig()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("converted config invalid: %v", err)
	}
	if sc.Windows[0].Kind != automation.KindAny || sc.Windows[0].Window != time.Hour {
		t.Fatalf("window 0: %+v", sc.Windows[0])
	}
	if sc.Windows[1].Kind != automation.KindLike || sc.Windows[1].Max != 12 {
		t.Fatalf("window 1: %+v", sc.Windows[1])
	}
	p, ok := sc.Pacing[automation.KindComment]
	if !ok || p.Min != time.Minute || p.Max != 3*time.Minute {
		t.Fatalf("comment pacing: %+v ok=%v", p, ok)
	}
	if sc.BackoffGrowth != 1.5 || sc.FailureCeiling != 3 || sc.SessionMax != 40 {
		t.Fatalf("scalars: %+v", sc)
	}
}

func TestSessionConfigRejectsBadKind(t *testing.T) {
	cfg := &Config{Automation: AutomationConfig{
		Windows: []WindowConfig{{Kind: "follow", Window: "1h", Max: 5}},
	}}
	if _, err := cfg.SessionConfig(); err == nil {
		t.Fatalf("expected unknown-kind error")
	}
}

func TestArchiveConfigNilSection(t *testing.T) {
	cfg := &Config{}
	sc, err := cfg.ArchiveConfig()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if sc.Driver != "" {
		t.Fatalf("expected disabled storage, got %+v", sc)
	}
}

func TestPlannerSchedulesConversion(t *testing.T) {
	cfg := &Config{Schedules: []ScheduleConfig{
		{Name: "s", Spec: "@every 2h", Kind: "comment", Targets: []string{"p"}, Payload: "nice"},
	}}
	defs, err := cfg.PlannerSchedules()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(defs) != 1 || defs[0].Kind != automation.KindComment || defs[0].Payload != "nice" {
		t.Fatalf("defs: %+v", defs)
	}
}

func TestParseDurationField(t *testing.T) {
	if d, err := ParseDurationField("x", " 90s "); err != nil || d != 90*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty: %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatalf("expected negative-duration error")
	}
}

func TestSummarizeConfigChange(t *testing.T) {
	old := &Config{Logging: LoggingConfig{Level: "info"}}
	next := &Config{
		Logging:    LoggingConfig{Level: "debug"},
		Automation: AutomationConfig{BackoffGrowth: 2},
	}
	changed, _ := SummarizeConfigChange(old, next)
	want := []string{"automation", "logging"}
	if len(changed) != len(want) {
		t.Fatalf("changed = %v, want %v", changed, want)
	}
	for i := range want {
		if changed[i] != want[i] {
			t.Fatalf("changed = %v, want %v", changed, want)
		}
	}
}
