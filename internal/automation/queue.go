package automation

import "sync"

// actionQueue holds pending actions in per-kind FIFO sub-queues and serves
// them round-robin across non-empty kinds so no action type is starved.
//
// The mutex exists only because Enqueue may be called from outside the
// session goroutine (e.g. the planner feeding a running session); the loop
// itself is the sole consumer.
type actionQueue struct {
	mu     sync.Mutex
	byKind [kindCount][]Action
	cursor int // next kind to prefer, round-robin
}

func newActionQueue() *actionQueue { return &actionQueue{} }

func (q *actionQueue) Push(a Action) {
	q.mu.Lock()
	q.byKind[a.Kind] = append(q.byKind[a.Kind], a)
	q.mu.Unlock()
}

func (q *actionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for i := range q.byKind {
		n += len(q.byKind[i])
	}
	return n
}

// kindOrder returns the non-empty kinds in current round-robin preference
// order. The first entry is the kind whose action is "next" in cross-kind
// order; later entries are legal substitutes while the first is rate-denied.
func (q *actionQueue) kindOrder() []Kind {
	q.mu.Lock()
	defer q.mu.Unlock()
	order := make([]Kind, 0, kindCount)
	for i := 0; i < int(kindCount); i++ {
		k := Kind((q.cursor + i) % int(kindCount))
		if len(q.byKind[k]) > 0 {
			order = append(order, k)
		}
	}
	return order
}

// Peek returns the head of kind's sub-queue without transferring ownership.
func (q *actionQueue) Peek(kind Kind) (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.byKind[kind]) == 0 {
		return Action{}, false
	}
	return q.byKind[kind][0], true
}

// Pop dequeues the head of kind's sub-queue and advances the round-robin
// cursor past that kind. Ownership of the action moves to the caller.
func (q *actionQueue) Pop(kind Kind) (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.byKind[kind]) == 0 {
		return Action{}, false
	}
	a := q.byKind[kind][0]
	q.byKind[kind] = q.byKind[kind][1:]
	q.cursor = (int(kind) + 1) % int(kindCount)
	return a, true
}

// Drain returns everything still queued, like-comment-message order within
// the current cursor rotation, preserving per-kind FIFO. Used for the
// not-attempted section of the run report; the queue keeps its contents.
func (q *actionQueue) Drain() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Action
	for i := 0; i < int(kindCount); i++ {
		k := Kind((q.cursor + i) % int(kindCount))
		out = append(out, q.byKind[k]...)
	}
	return out
}
