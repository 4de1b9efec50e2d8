package automation

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid session configuration. It is fatal at
// startup; Session construction refuses it before any action runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("automation config: %s: %s", e.Field, e.Reason)
}

// ErrExecutorContract is returned by Run when the executor reports a result
// outside the known categories. Per-action failures never surface here; only
// a broken executor does.
var ErrExecutorContract = errors.New("executor returned an uncategorized result")

// ErrNoPacing is wrapped into a ConfigError-shaped failure when an action's
// kind has no configured pacing range. Detected at enqueue time.
var ErrNoPacing = errors.New("no pacing range configured for kind")
