package automation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Kind is the category of an automated action.
type Kind int

const (
	KindLike Kind = iota
	KindComment
	KindMessage

	kindCount
)

// KindAny marks a rate window that applies to every action kind
// (a session-global ceiling).
const KindAny Kind = -1

func (k Kind) String() string {
	switch k {
	case KindLike:
		return "like"
	case KindComment:
		return "comment"
	case KindMessage:
		return "message"
	case KindAny:
		return "any"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a config string to a Kind. "any"/"*" select KindAny.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like":
		return KindLike, nil
	case "comment":
		return KindComment, nil
	case "message", "dm":
		return KindMessage, nil
	case "any", "all", "*", "global":
		return KindAny, nil
	default:
		return 0, fmt.Errorf("unknown action kind %q", s)
	}
}

// Kinds lists the concrete action kinds in round-robin order.
func Kinds() []Kind { return []Kind{KindLike, KindComment, KindMessage} }

// Action is one discrete automated operation targeting an external entity.
// Immutable once created; owned by the queue until dequeued, then by the
// session loop until its outcome is recorded.
type Action struct {
	Kind       Kind
	Target     string // post/user identifier on the platform
	Payload    string // comment or message body; empty for likes
	EnqueuedAt time.Time
}

// Result categorizes what happened when an action was attempted.
type Result int

const (
	Success Result = iota
	SoftFailure
	HardFailure
	RateLimited
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case SoftFailure:
		return "soft_failure"
	case HardFailure:
		return "hard_failure"
	case RateLimited:
		return "rate_limited"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

func (r Result) valid() bool {
	return r >= Success && r <= RateLimited
}

// Outcome is the recorded result of attempting an Action.
// Appended once to the ledger, never mutated.
type Outcome struct {
	Action Action
	Result Result
	At     time.Time
	Detail string
}

// Executor performs one concrete action against the platform.
//
// It must always categorize what happened via Result; err carries the
// failure detail for the ledger. An error alongside Success is ignored.
// A Result outside the known set is a contract violation and aborts the
// session (see Run).
type Executor interface {
	Execute(ctx context.Context, a Action) (Result, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, a Action) (Result, error)

func (f ExecutorFunc) Execute(ctx context.Context, a Action) (Result, error) { return f(ctx, a) }

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateHaltedByLimit
	StateHaltedByFailures
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateHaltedByLimit:
		return "halted_by_limit"
	case StateHaltedByFailures:
		return "halted_by_failures"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// HaltReason explains why a run ended.
type HaltReason int

const (
	// ReasonDrained means the queue was fully worked off.
	ReasonDrained HaltReason = iota
	// ReasonSessionLimit means the absolute session action ceiling was reached.
	ReasonSessionLimit
	// ReasonFailures means the consecutive hard-failure ceiling was reached.
	ReasonFailures
	// ReasonCanceled means Halt() was called or the context was canceled.
	ReasonCanceled
)

func (r HaltReason) String() string {
	switch r {
	case ReasonDrained:
		return "drained"
	case ReasonSessionLimit:
		return "session_limit"
	case ReasonFailures:
		return "failures"
	case ReasonCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// RunReport is what a finished run hands back to the caller.
type RunReport struct {
	// State is the terminal state the loop ended in (Draining,
	// HaltedByLimit or HaltedByFailures) before settling back to Idle;
	// a canceled run reports Idle.
	State        State
	Reason       HaltReason
	Attempted    int
	NotAttempted []Action // still queued when the run ended, in queue order
	Summary      Summary
	Events       []Outcome
}

// Event type strings published on the bus.
const (
	EventActionExecuted = "action.executed"
	EventSessionHalted  = "session.halted"
)

// SessionEvent is the bus payload for session lifecycle events.
type SessionEvent struct {
	Reason    string
	Attempted int
	Remaining int
}
