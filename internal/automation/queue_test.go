package automation

import (
	"testing"
	"time"
)

func act(k Kind, target string) Action {
	return Action{Kind: k, Target: target, EnqueuedAt: time.Unix(0, 0)}
}

func TestRoundRobinAcrossKinds(t *testing.T) {
	q := newActionQueue()
	q.Push(act(KindLike, "l1"))
	q.Push(act(KindLike, "l2"))
	q.Push(act(KindComment, "c1"))
	q.Push(act(KindMessage, "m1"))

	var order []string
	for q.Len() > 0 {
		kinds := q.kindOrder()
		a, ok := q.Pop(kinds[0])
		if !ok {
			t.Fatalf("pop failed for %v", kinds[0])
		}
		order = append(order, a.Target)
	}

	want := []string{"l1", "c1", "m1", "l2"}
	if len(order) != len(want) {
		t.Fatalf("served %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("served %v, want %v", order, want)
		}
	}
}

func TestFIFOWithinKind(t *testing.T) {
	q := newActionQueue()
	for _, tg := range []string{"a", "b", "c"} {
		q.Push(act(KindComment, tg))
	}
	for _, want := range []string{"a", "b", "c"} {
		a, ok := q.Pop(KindComment)
		if !ok || a.Target != want {
			t.Fatalf("got %q ok=%v, want %q", a.Target, ok, want)
		}
	}
}

func TestDrainKeepsContents(t *testing.T) {
	q := newActionQueue()
	q.Push(act(KindLike, "l1"))
	q.Push(act(KindMessage, "m1"))

	d := q.Drain()
	if len(d) != 2 {
		t.Fatalf("drained %d, want 2", len(d))
	}
	if q.Len() != 2 {
		t.Fatalf("drain consumed the queue: len=%d", q.Len())
	}
}
