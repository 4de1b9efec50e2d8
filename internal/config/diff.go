package config

import (
	"reflect"
	"sort"
	"strings"

	logx "github.com/MaryEjairu/InstaAutomator/pkg/logx"
)

// SummarizeConfigChange returns (1) a compact list of changed sections and
// (2) safe structured attrs for logging. Used when a reload commits so the
// log shows what tuning actually moved.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 16)

	// Logging
	if oldCfg.Logging.Level != newCfg.Logging.Level ||
		oldCfg.Logging.Console != newCfg.Logging.Console ||
		oldCfg.Logging.File.Enabled != newCfg.Logging.File.Enabled ||
		strings.TrimSpace(oldCfg.Logging.File.Path) != strings.TrimSpace(newCfg.Logging.File.Path) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	// Automation (windows, pacing, backoff, ceilings)
	if !reflect.DeepEqual(oldCfg.Automation, newCfg.Automation) {
		changed = append(changed, "automation")
		attrs = append(attrs,
			logx.Int("automation.window_count", len(newCfg.Automation.Windows)),
			logx.Int("automation.paced_kinds", len(newCfg.Automation.Pacing)),
			logx.Float64("automation.backoff_growth", newCfg.Automation.BackoffGrowth),
			logx.Float64("automation.backoff_max", newCfg.Automation.BackoffMax),
			logx.Int("automation.failure_ceiling", newCfg.Automation.FailureCeiling),
			logx.Int("automation.session_max", newCfg.Automation.SessionMax),
		)
	}

	// Executor (dry-run simulator). Nil means all-success defaults.
	oE := derefExecutor(oldCfg.Executor)
	nE := derefExecutor(newCfg.Executor)
	if oE != nE {
		changed = append(changed, "executor")
		attrs = append(attrs,
			logx.Int("executor.max_per_sec", nE.MaxPerSec),
			logx.Float64("executor.rate_limited_rate", nE.RateLimitedRate),
			logx.Float64("executor.hard_fail_rate", nE.HardFailRate),
			logx.Float64("executor.soft_fail_rate", nE.SoftFailRate),
		)
	}

	// Storage. Nil means disabled.
	var oDriver, nDriver, oBusy, nBusy string
	var oPathSet, nPathSet bool
	if oldCfg.Storage != nil {
		oDriver = strings.TrimSpace(oldCfg.Storage.Driver)
		oBusy = strings.TrimSpace(oldCfg.Storage.BusyTimeout)
		oPathSet = strings.TrimSpace(oldCfg.Storage.Path) != ""
	}
	if newCfg.Storage != nil {
		nDriver = strings.TrimSpace(newCfg.Storage.Driver)
		nBusy = strings.TrimSpace(newCfg.Storage.BusyTimeout)
		nPathSet = strings.TrimSpace(newCfg.Storage.Path) != ""
	}
	if oDriver != nDriver || oBusy != nBusy || oPathSet != nPathSet {
		changed = append(changed, "storage")
		attrs = append(attrs,
			logx.String("storage.driver", nDriver),
			logx.Bool("storage.path_set", nPathSet),
			logx.String("storage.busy_timeout", nBusy),
		)
	}

	// Schedules (summarize only; targets may be long)
	if !reflect.DeepEqual(oldCfg.Schedules, newCfg.Schedules) {
		changed = append(changed, "schedules")
		attrs = append(attrs, logx.Int("schedules.count", len(newCfg.Schedules)))
	}

	sort.Strings(changed)
	return changed, attrs
}

func derefExecutor(e *ExecutorConfig) ExecutorConfig {
	if e == nil {
		return ExecutorConfig{}
	}
	return *e
}
