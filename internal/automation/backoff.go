package automation

// backoffState holds the per-kind failure streak and pacing multiplier.
// Transitions are pure state updates driven by outcomes; callers never see
// exception-style control flow.
type backoffState struct {
	growth float64
	max    float64

	mult  [kindCount]float64
	fails [kindCount]int
}

func newBackoffState(growth, max float64) *backoffState {
	b := &backoffState{growth: growth, max: max}
	for i := range b.mult {
		b.mult[i] = 1.0
	}
	return b
}

func (b *backoffState) Multiplier(kind Kind) float64 { return b.mult[kind] }

func (b *backoffState) Failures(kind Kind) int { return b.fails[kind] }

// Observe folds one outcome into the kind's state.
//
// Success resets to baseline regardless of streak length. Soft and hard
// failures grow the multiplier by one factor. An executor-reported
// RateLimited means the platform's real limit was hit despite local
// admission, so it widens the multiplier by a squared factor, still capped.
func (b *backoffState) Observe(kind Kind, res Result) {
	switch res {
	case Success:
		b.mult[kind] = 1.0
		b.fails[kind] = 0
	case SoftFailure, HardFailure:
		b.fails[kind]++
		b.mult[kind] = capMult(b.mult[kind]*b.growth, b.max)
	case RateLimited:
		b.fails[kind]++
		b.mult[kind] = capMult(b.mult[kind]*b.growth*b.growth, b.max)
	}
}

func capMult(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
