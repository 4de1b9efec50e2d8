package automation

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/eventbus"
	logx "github.com/MaryEjairu/InstaAutomator/pkg/logx"
)

// Deps are the collaborators a Session needs. Executor is required; the rest
// default to safe no-ops (and Now/Sleep exist so tests never really sleep).
type Deps struct {
	Executor Executor
	Log      logx.Logger
	Bus      *eventbus.Bus

	// Now and Sleep override the wall clock. Leave nil outside tests.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Session drives one account-session's action stream: a single loop that
// dequeues round-robin across kinds, asks the rate limiter for admission,
// pauses for a randomized pacing delay, executes, and folds the outcome into
// the ledger and backoff state.
//
// One goroutine (the Run caller) owns all mutable state. Enqueue and Halt are
// the only methods safe to call concurrently with Run.
type Session struct {
	cfg  Config
	exec Executor
	log  logx.Logger
	bus  *eventbus.Bus

	queue   *actionQueue
	limiter *rateLimiter
	pacing  *pacingPolicy
	backoff *backoffState
	ledger  *Ledger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	state    atomic.Int32
	haltOnce sync.Once
	haltCh   chan struct{}
	wakeCh   chan struct{}

	attempted  int
	consecHard int
}

// NewSession validates cfg and builds a session. Created per run, discarded
// at run end; a Session never runs twice.
func NewSession(cfg Config, deps Deps) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Executor == nil {
		return nil, &ConfigError{Field: "executor", Reason: "required"}
	}
	log := deps.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Session{
		cfg:     cfg,
		exec:    deps.Executor,
		log:     log,
		bus:     deps.Bus,
		queue:   newActionQueue(),
		limiter: newRateLimiter(cfg.Windows),
		pacing:  newPacingPolicy(cfg.Pacing, cfg.Seed),
		backoff: newBackoffState(cfg.BackoffGrowth, cfg.BackoffMax),
		ledger:  newLedger(),
		haltCh:  make(chan struct{}),
		wakeCh:  make(chan struct{}, 1),
		now:     deps.Now,
		sleep:   deps.Sleep,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.state.Store(int32(StateIdle))
	return s, nil
}

// State reports the current lifecycle state. Observability only.
func (s *Session) State() State { return State(s.state.Load()) }

// QueueLen reports how many actions are still queued.
func (s *Session) QueueLen() int { return s.queue.Len() }

// Enqueue adds actions to the session queue. Callable before Run and, unlike
// the rest of the session surface, also while the loop is running.
func (s *Session) Enqueue(actions ...Action) error {
	for _, a := range actions {
		if a.Kind < 0 || a.Kind >= kindCount {
			return &ConfigError{Field: "action.kind", Reason: fmt.Sprintf("unknown kind %v", a.Kind)}
		}
		if _, ok := s.cfg.Pacing[a.Kind]; !ok {
			return fmt.Errorf("%w: %s", ErrNoPacing, a.Kind)
		}
		if a.EnqueuedAt.IsZero() {
			a.EnqueuedAt = s.now()
		}
		s.queue.Push(a)
	}
	// Wake a lingering loop that is parked on an empty queue.
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
	return nil
}

// Halt requests a cooperative stop. It is honored at the next wait or
// iteration boundary; an in-flight executor call is never pre-empted.
func (s *Session) Halt() {
	s.haltOnce.Do(func() { close(s.haltCh) })
}

func (s *Session) halted(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-s.haltCh:
		return true
	default:
		return false
	}
}

// Run works the queue until it drains or a hard-stop fires. Per-action
// failures are absorbed into the ledger and backoff state; only a broken
// executor contract escapes as an error (alongside the partial report).
func (s *Session) Run(ctx context.Context) (RunReport, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return RunReport{}, errors.New("automation: session already started")
	}

	reason := ReasonDrained
	var fatal error

loop:
	for {
		if s.halted(ctx) {
			// Stopping with nothing queued abandons no work; that run
			// drained. Canceled is reserved for runs that left actions behind.
			if s.queue.Len() == 0 {
				s.state.Store(int32(StateDraining))
			} else {
				reason = ReasonCanceled
			}
			break
		}
		if s.cfg.SessionMax > 0 && s.attempted >= s.cfg.SessionMax {
			reason = ReasonSessionLimit
			break
		}

		order := s.queue.kindOrder()
		if len(order) == 0 {
			if !s.cfg.Linger {
				s.state.Store(int32(StateDraining))
				break
			}
			// A feeder (the planner's cron firings) owns the queue's supply
			// in linger mode: park until it enqueues more work or the run is
			// ended. Ending on an empty queue still counts as drained.
			select {
			case <-ctx.Done():
				s.state.Store(int32(StateDraining))
				break loop
			case <-s.haltCh:
				s.state.Store(int32(StateDraining))
				break loop
			case <-s.wakeCh:
			}
			continue
		}

		// Serve the first kind in round-robin order whose admission passes.
		// A denied kind keeps its position; a different kind may run in the
		// meantime so throughput survives one throttled stream.
		served := false
		wait := time.Duration(-1)
		for _, k := range order {
			dec := s.limiter.Admit(k, s.now())
			if !dec.Allowed {
				if wait < 0 || dec.RetryAfter < wait {
					wait = dec.RetryAfter
				}
				continue
			}
			if err := s.serve(ctx, k); err != nil {
				if errors.Is(err, ErrExecutorContract) {
					fatal = err
					reason = ReasonCanceled
					break loop
				}
				// Canceled mid-pacing: the action stayed queued.
				reason = ReasonCanceled
				break loop
			}
			served = true
			break
		}

		if !served {
			if wait < 0 {
				continue
			}
			// Every non-empty kind is at capacity. Suspend until the
			// earliest window frees a slot, then re-check; no busy-polling.
			s.log.Debug("rate.wait", logx.Duration("retry_after", wait))
			if err := s.wait(ctx, wait); err != nil {
				reason = ReasonCanceled
				break
			}
			continue
		}

		// Halt conditions, checked after each recorded outcome.
		if s.cfg.FailureCeiling > 0 && s.consecHard >= s.cfg.FailureCeiling {
			s.state.Store(int32(StateHaltedByFailures))
			reason = ReasonFailures
			break
		}
		if s.cfg.SessionMax > 0 && s.attempted >= s.cfg.SessionMax {
			s.state.Store(int32(StateHaltedByLimit))
			reason = ReasonSessionLimit
			break
		}
	}

	// The state the loop ended in, before the session settles back to Idle.
	// A canceled run has no halt state of its own and reports Idle.
	terminal := State(s.state.Load())
	if terminal == StateRunning {
		terminal = StateIdle
	}

	report := RunReport{
		State:        terminal,
		Reason:       reason,
		Attempted:    s.attempted,
		NotAttempted: s.queue.Drain(),
		Summary:      s.ledger.Summary(),
		Events:       s.ledger.Events(),
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: EventSessionHalted, Time: s.now(), Data: SessionEvent{
			Reason:    reason.String(),
			Attempted: report.Attempted,
			Remaining: len(report.NotAttempted),
		}})
	}
	s.log.Info("session.finished",
		logx.String("reason", reason.String()),
		logx.Int("attempted", report.Attempted),
		logx.Int("not_attempted", len(report.NotAttempted)))

	// Terminal state is Idle: the run is over, whatever the road taken.
	s.state.Store(int32(StateIdle))
	return report, fatal
}

// serve paces and executes the head action of kind, then records the outcome.
// The action stays queued during the pacing suspension, so a cancellation
// there loses nothing.
func (s *Session) serve(ctx context.Context, kind Kind) error {
	delay := s.pacing.NextDelay(kind, s.backoff.Multiplier(kind))
	s.log.Debug("pacing.wait",
		logx.String("kind", kind.String()),
		logx.Duration("delay", delay),
		logx.Float64("multiplier", s.backoff.Multiplier(kind)))
	if err := s.wait(ctx, delay); err != nil {
		return err
	}

	a, ok := s.queue.Pop(kind)
	if !ok {
		// Single consumer; a vanished head means a bug, not a race.
		return fmt.Errorf("automation: %s sub-queue drained unexpectedly", kind)
	}

	res, detail := s.execute(ctx, a)
	now := s.now()

	contractBroken := !res.valid()
	if contractBroken {
		// Keep the accounting invariant (queued/in-flight/ledger) intact
		// even on a broken executor: record a hard failure, then abort.
		detail = fmt.Sprintf("uncategorized result %d", int(res))
		res = HardFailure
	}

	o := Outcome{Action: a, Result: res, At: now, Detail: detail}
	s.ledger.Record(o)
	s.limiter.Record(kind, now)
	s.backoff.Observe(kind, res)
	s.attempted++
	if res == HardFailure || res == RateLimited {
		s.consecHard++
	} else {
		s.consecHard = 0
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: EventActionExecuted, Time: now, Data: o})
	}
	switch res {
	case Success:
		s.log.Debug("action.executed",
			logx.String("kind", kind.String()),
			logx.String("target", a.Target))
	case RateLimited:
		s.log.Warn("action.rate_limited",
			logx.String("kind", kind.String()),
			logx.String("target", a.Target),
			logx.Float64("multiplier", s.backoff.Multiplier(kind)))
	default:
		s.log.Warn("action.failed",
			logx.String("kind", kind.String()),
			logx.String("target", a.Target),
			logx.String("result", res.String()),
			logx.String("detail", detail))
	}

	if contractBroken {
		return fmt.Errorf("%w (kind=%s target=%s)", ErrExecutorContract, kind, a.Target)
	}
	return nil
}

// execute calls the executor with a panic guard so one bad action cannot
// crash the session loop. Failures returned without a category collapse to
// HardFailure.
func (s *Session) execute(ctx context.Context, a Action) (res Result, detail string) {
	defer func() {
		if r := recover(); r != nil {
			res = HardFailure
			detail = fmt.Sprintf("executor panic: %v", r)
			s.log.Error("executor.panic",
				logx.String("kind", a.Kind.String()),
				logx.Any("panic", r),
				logx.Stack(string(debug.Stack())))
		}
	}()
	r, err := s.exec.Execute(ctx, a)
	if err != nil {
		detail = err.Error()
		if r == Success {
			r = HardFailure
		}
	}
	return r, detail
}

// wait suspends for d, waking early on context cancellation or Halt().
// With an injected Sleep (tests), the fake decides how time passes; Halt is
// still honored at the boundary.
func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if s.sleep != nil {
		if err := s.sleep(ctx, d); err != nil {
			return err
		}
		if s.halted(ctx) {
			return errors.New("session halted")
		}
		return nil
	}
	tmr := time.NewTimer(d)
	defer tmr.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.haltCh:
		return errors.New("session halted")
	case <-tmr.C:
		return nil
	}
}
