package automation

import (
	"math/rand"
	"time"
)

// pacingPolicy draws the randomized think-time before each action. Each call
// is an independent uniform draw from the kind's [min, max] range; the only
// memory between calls is the backoff multiplier applied on top.
//
// Per-session RNG, seedable for deterministic tests; no global rand state.
type pacingPolicy struct {
	ranges map[Kind]PacingRange
	rng    *rand.Rand
}

func newPacingPolicy(ranges map[Kind]PacingRange, seed int64) *pacingPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &pacingPolicy{
		ranges: ranges,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NextDelay returns a delay in [min*multiplier, max*multiplier] for kind.
// multiplier floors at 1.0, so the configured minimum always applies.
// Never zero or negative.
func (p *pacingPolicy) NextDelay(kind Kind, multiplier float64) time.Duration {
	r, ok := p.ranges[kind]
	if !ok {
		// Enqueue validates this; keep a conservative fallback anyway.
		return time.Second
	}
	d := r.Min
	if span := int64(r.Max - r.Min); span > 0 {
		d += time.Duration(p.rng.Int63n(span + 1))
	}
	if multiplier < 1 {
		multiplier = 1
	}
	d = time.Duration(float64(d) * multiplier)
	if d < r.Min {
		d = r.Min
	}
	return d
}
