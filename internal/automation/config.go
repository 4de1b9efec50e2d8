package automation

import (
	"fmt"
	"time"
)

// RateWindow caps executions of one kind (or KindAny for all kinds) inside a
// rolling window. Multiple windows may bind the same kind; all must pass.
type RateWindow struct {
	Kind   Kind
	Window time.Duration
	Max    int
}

// PacingRange bounds the randomized per-action delay for one kind before
// backoff scaling.
type PacingRange struct {
	Min time.Duration
	Max time.Duration
}

// Config holds everything a session needs to pace itself. All knobs are
// required inputs; there are no tuned-in defaults for window sizes because
// safe values depend entirely on the account.
type Config struct {
	// Windows are the rolling-window ceilings. At least one window per kind
	// that will be enqueued is expected, but not enforced; a kind with no
	// binding window is only paced, never rate-limited locally.
	Windows []RateWindow

	// Pacing maps each concrete kind to its randomized delay range.
	// Every kind that gets enqueued must have a range.
	Pacing map[Kind]PacingRange

	// BackoffGrowth multiplies the pacing delay on each failure (>1).
	BackoffGrowth float64
	// BackoffMax caps the per-kind multiplier (>= 1).
	BackoffMax float64

	// FailureCeiling halts the session once this many consecutive
	// hard failures occur across all kinds. 0 disables the check.
	FailureCeiling int

	// SessionMax is the absolute number of actions one session may attempt.
	// 0 disables the ceiling.
	SessionMax int

	// Linger keeps the run alive when the queue empties, parked until a
	// feeder enqueues more work. Used for schedule-fed runs, where the cron
	// firings arrive while the session is up; Halt, context cancellation and
	// the ceilings still end the run.
	Linger bool

	// Seed makes the pacing jitter deterministic when non-zero (tests).
	Seed int64
}

// Validate surfaces configuration errors before any action runs.
func (c Config) Validate() error {
	for i, w := range c.Windows {
		if w.Window <= 0 {
			return &ConfigError{Field: fmt.Sprintf("windows[%d].window", i), Reason: "must be > 0"}
		}
		if w.Max <= 0 {
			return &ConfigError{Field: fmt.Sprintf("windows[%d].max", i), Reason: "must be > 0"}
		}
		if w.Kind != KindAny && (w.Kind < 0 || w.Kind >= kindCount) {
			return &ConfigError{Field: fmt.Sprintf("windows[%d].kind", i), Reason: "unknown kind"}
		}
	}
	for k, p := range c.Pacing {
		if k < 0 || k >= kindCount {
			return &ConfigError{Field: "pacing", Reason: fmt.Sprintf("unknown kind %v", k)}
		}
		if p.Min <= 0 {
			return &ConfigError{Field: "pacing." + k.String() + ".min", Reason: "must be > 0"}
		}
		if p.Max < p.Min {
			return &ConfigError{Field: "pacing." + k.String() + ".max", Reason: "must be >= min"}
		}
	}
	if c.BackoffGrowth <= 1 {
		return &ConfigError{Field: "backoff_growth", Reason: "must be > 1"}
	}
	if c.BackoffMax < 1 {
		return &ConfigError{Field: "backoff_max", Reason: "must be >= 1"}
	}
	if c.FailureCeiling < 0 {
		return &ConfigError{Field: "failure_ceiling", Reason: "must be >= 0"}
	}
	if c.SessionMax < 0 {
		return &ConfigError{Field: "session_max", Reason: "must be >= 0"}
	}
	return nil
}
