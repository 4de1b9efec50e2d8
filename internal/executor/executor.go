// Package executor provides Executor implementations for the automation
// session. The session only sees the four outcome categories; everything
// transport-shaped lives here.
package executor

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	logx "github.com/MaryEjairu/InstaAutomator/pkg/logx"
)

// DryRunConfig tunes the simulated executor.
type DryRunConfig struct {
	// MaxPerSec smooths outbound call bursts on top of the session's own
	// rolling windows. 0 disables the limiter.
	MaxPerSec int

	// Failure probabilities per attempt, in [0, 1]. Evaluated in order:
	// rate-limited, hard, soft; the remainder succeeds.
	RateLimitedRate float64
	HardFailRate    float64
	SoftFailRate    float64

	// Seed makes the simulation deterministic when non-zero.
	Seed int64
}

// DryRun simulates platform calls without touching the network. It is the
// default executor for rehearsing a session plan and for end-to-end tests.
type DryRun struct {
	cfg DryRunConfig
	log logx.Logger

	limiter *rate.Limiter

	mu  sync.Mutex
	rng *rand.Rand
}

func NewDryRun(cfg DryRunConfig, log logx.Logger) *DryRun {
	if log.IsZero() {
		log = logx.Nop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &DryRun{
		cfg: cfg,
		log: log,
		rng: rand.New(rand.NewSource(seed)),
	}
	if cfg.MaxPerSec > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.MaxPerSec), cfg.MaxPerSec)
	}
	return d
}

func (d *DryRun) Execute(ctx context.Context, a automation.Action) (automation.Result, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return automation.SoftFailure, err
		}
	}

	d.mu.Lock()
	roll := d.rng.Float64()
	d.mu.Unlock()

	switch {
	case roll < d.cfg.RateLimitedRate:
		d.log.Debug("dryrun.rate_limited", logx.String("kind", a.Kind.String()), logx.String("target", a.Target))
		return automation.RateLimited, fmt.Errorf("simulated platform throttle on %s", a.Target)
	case roll < d.cfg.RateLimitedRate+d.cfg.HardFailRate:
		return automation.HardFailure, fmt.Errorf("simulated hard failure on %s", a.Target)
	case roll < d.cfg.RateLimitedRate+d.cfg.HardFailRate+d.cfg.SoftFailRate:
		return automation.SoftFailure, fmt.Errorf("simulated soft failure on %s", a.Target)
	default:
		d.log.Debug("dryrun.ok",
			logx.String("kind", a.Kind.String()),
			logx.String("target", a.Target))
		return automation.Success, nil
	}
}
