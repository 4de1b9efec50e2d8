package automation

import "testing"

func TestFailuresGrowMultiplierBounded(t *testing.T) {
	b := newBackoffState(2.0, 10.0)

	if got := b.Multiplier(KindLike); got != 1.0 {
		t.Fatalf("baseline multiplier = %v, want 1.0", got)
	}
	b.Observe(KindLike, SoftFailure)
	if got := b.Multiplier(KindLike); got != 2.0 {
		t.Fatalf("after one soft failure = %v, want 2.0", got)
	}
	b.Observe(KindLike, HardFailure)
	if got := b.Multiplier(KindLike); got != 4.0 {
		t.Fatalf("after hard failure = %v, want 4.0", got)
	}
	for i := 0; i < 10; i++ {
		b.Observe(KindLike, HardFailure)
	}
	if got := b.Multiplier(KindLike); got != 10.0 {
		t.Fatalf("multiplier escaped cap: %v", got)
	}
	if got := b.Failures(KindLike); got != 12 {
		t.Fatalf("failure streak = %d, want 12", got)
	}
}

func TestSuccessResetsRegardlessOfStreak(t *testing.T) {
	b := newBackoffState(3.0, 50.0)
	for i := 0; i < 8; i++ {
		b.Observe(KindMessage, HardFailure)
	}
	b.Observe(KindMessage, Success)
	if got := b.Multiplier(KindMessage); got != 1.0 {
		t.Fatalf("multiplier after success = %v, want 1.0", got)
	}
	if got := b.Failures(KindMessage); got != 0 {
		t.Fatalf("streak after success = %d, want 0", got)
	}
}

func TestRateLimitedWidensBeyondOrdinaryFailure(t *testing.T) {
	soft := newBackoffState(2.0, 100.0)
	limited := newBackoffState(2.0, 100.0)

	// Identical prior state: one prior soft failure each.
	soft.Observe(KindComment, SoftFailure)
	limited.Observe(KindComment, SoftFailure)

	soft.Observe(KindComment, SoftFailure)
	limited.Observe(KindComment, RateLimited)

	if !(limited.Multiplier(KindComment) > soft.Multiplier(KindComment)) {
		t.Fatalf("rate-limited multiplier %v not greater than soft-failure multiplier %v",
			limited.Multiplier(KindComment), soft.Multiplier(KindComment))
	}
}

func TestBackoffIsScopedPerKind(t *testing.T) {
	b := newBackoffState(2.0, 10.0)
	b.Observe(KindComment, HardFailure)
	b.Observe(KindComment, HardFailure)
	if got := b.Multiplier(KindLike); got != 1.0 {
		t.Fatalf("failing comment stream leaked into likes: %v", got)
	}
}
