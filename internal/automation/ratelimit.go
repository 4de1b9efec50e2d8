package automation

import "time"

// Decision is the limiter's answer to "may this kind run now".
type Decision struct {
	Allowed bool
	// RetryAfter is the earliest duration after which a denied kind can
	// legally pass every binding window. Zero when Allowed.
	RetryAfter time.Duration
}

// rateLimiter tracks execution timestamps per configured window.
//
// Admit never mutates state: only a confirmed execution (Record) appends a
// timestamp, so a denied-then-retried action is not double-counted.
type rateLimiter struct {
	windows []RateWindow
	stamps  [][]time.Time // parallel to windows, oldest first
}

func newRateLimiter(windows []RateWindow) *rateLimiter {
	return &rateLimiter{
		windows: windows,
		stamps:  make([][]time.Time, len(windows)),
	}
}

func (l *rateLimiter) binds(i int, kind Kind) bool {
	w := l.windows[i]
	return w.Kind == KindAny || w.Kind == kind
}

// prune drops timestamps older than the window. Expired entries are never
// retained as dead weight.
func (l *rateLimiter) prune(i int, now time.Time) {
	w := l.windows[i]
	s := l.stamps[i]
	cut := 0
	for cut < len(s) && !s[cut].After(now.Add(-w.Window)) {
		cut++
	}
	if cut > 0 {
		l.stamps[i] = append(s[:0:0], s[cut:]...)
	}
}

// Admit checks every window binding kind. All windows compose via logical
// AND; the reported RetryAfter is the wait for the tightest-binding window
// (the one that stays saturated longest), i.e. the earliest instant at which
// every window can pass.
func (l *rateLimiter) Admit(kind Kind, now time.Time) Decision {
	var wait time.Duration
	for i := range l.windows {
		if !l.binds(i, kind) {
			continue
		}
		l.prune(i, now)
		if len(l.stamps[i]) < l.windows[i].Max {
			continue
		}
		// Oldest entry expiring frees one slot in this window.
		w := l.stamps[i][0].Add(l.windows[i].Window).Sub(now)
		if w <= 0 {
			w = time.Nanosecond
		}
		if w > wait {
			wait = w
		}
	}
	if wait > 0 {
		return Decision{Allowed: false, RetryAfter: wait}
	}
	return Decision{Allowed: true}
}

// Record registers a confirmed execution of kind at now in every binding
// window.
func (l *rateLimiter) Record(kind Kind, now time.Time) {
	for i := range l.windows {
		if !l.binds(i, kind) {
			continue
		}
		l.prune(i, now)
		l.stamps[i] = append(l.stamps[i], now)
	}
}
