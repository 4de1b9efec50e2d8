package automation

// SummaryKey groups ledger counts by action kind and result.
type SummaryKey struct {
	Kind   Kind
	Result Result
}

// Summary is the per-(kind, result) count view of a ledger.
type Summary map[SummaryKey]int

// Ledger is the append-only record of a session's outcomes. Insertion order
// is execution order; nothing is ever reordered or deleted.
//
// Thread-unsafe by design: the single session goroutine owns it. Readers get
// copies via Events()/Summary() only after the run ends (or through the bus).
type Ledger struct {
	events []Outcome
}

func newLedger() *Ledger { return &Ledger{} }

func (l *Ledger) Record(o Outcome) {
	l.events = append(l.events, o)
}

func (l *Ledger) Len() int { return len(l.events) }

// Events returns the outcomes in execution order. The slice is a copy; the
// ledger itself stays immutable from the caller's side.
func (l *Ledger) Events() []Outcome {
	return append([]Outcome(nil), l.events...)
}

func (l *Ledger) Summary() Summary {
	s := make(Summary)
	for _, o := range l.events {
		s[SummaryKey{Kind: o.Action.Kind, Result: o.Result}]++
	}
	return s
}
