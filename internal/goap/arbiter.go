package goap

// Default anti-thrash tuning. Both values are calibration points, not
// load-bearing exact numbers; the herd config can override them.
const (
	DefaultHysteresisFactor = 1.20
	DefaultPreemptionMargin = 30.0
)

// Reason tags why SelectGoal returned the goal it did.
type Reason string

const (
	// ReasonSwitch: a new goal was adopted (first selection, the old goal
	// became invalid, or a challenger cleared an anti-thrash bar).
	ReasonSwitch Reason = "switch"
	// ReasonMaintain: the best-scoring goal is already the current one.
	ReasonMaintain Reason = "maintain"
	// ReasonHysteresis: a challenger outscored the current goal but not by
	// enough to justify switching.
	ReasonHysteresis Reason = "hysteresis"
)

// Selection is the transient output of one arbitration tick.
type Selection struct {
	Goal    *Goal
	Utility float64
	Reason  Reason
}

// Arbiter picks which goal an agent pursues each tick. It holds exactly one
// piece of state across ticks: the currently selected goal. To resist
// flapping between near-equal options, a challenger only displaces the
// current goal when it clears either the relative hysteresis factor (same
// tier oscillation) or the flat preemption margin (cross-tier interrupts);
// clearing either bar suffices.
type Arbiter struct {
	Goals            []*Goal
	HysteresisFactor float64
	PreemptionMargin float64

	current *Goal
}

// NewArbiter builds an arbiter over a role's goal registry with default
// anti-thrash tuning.
func NewArbiter(goals []*Goal) *Arbiter {
	return &Arbiter{
		Goals:            goals,
		HysteresisFactor: DefaultHysteresisFactor,
		PreemptionMargin: DefaultPreemptionMargin,
	}
}

// CurrentGoal returns the goal selected on the previous tick, or nil.
func (ar *Arbiter) CurrentGoal() *Goal { return ar.current }

// ClearCurrentGoal forces the arbiter back to the unset state. Used when a
// role restarts or is explicitly reset.
func (ar *Arbiter) ClearCurrentGoal() { ar.current = nil }

// SelectGoal scores every valid goal against ws and returns the winner.
// Arbitration never fails: when no goal scores positive, the best valid
// goal is still returned, which is how the always-valid fallback goal keeps
// an agent from stalling.
func (ar *Arbiter) SelectGoal(ws *WorldState) Selection {
	best, bestUtil := ar.bestGoal(ws)
	if best == nil {
		// Registry has no valid goals at all; hold whatever we had.
		return Selection{Goal: ar.current, Reason: ReasonMaintain}
	}

	// Unset, or the current goal has been gated off: adopt the winner.
	if ar.current == nil || !ar.current.IsValid(ws) {
		ar.current = best
		return Selection{Goal: best, Utility: bestUtil, Reason: ReasonSwitch}
	}

	if best == ar.current {
		return Selection{Goal: best, Utility: bestUtil, Reason: ReasonMaintain}
	}

	curUtil := ar.current.Utility(ws)
	if bestUtil > curUtil*ar.HysteresisFactor || bestUtil > curUtil+ar.PreemptionMargin {
		ar.current = best
		return Selection{Goal: best, Utility: bestUtil, Reason: ReasonSwitch}
	}

	return Selection{Goal: ar.current, Utility: curUtil, Reason: ReasonHysteresis}
}

// bestGoal returns the highest-utility valid goal. Goals with non-positive
// utility only win when nothing valid scores higher, so a low-but-positive
// fallback beats a field of zeros.
func (ar *Arbiter) bestGoal(ws *WorldState) (*Goal, float64) {
	var (
		best     *Goal
		bestUtil float64
	)
	for _, g := range ar.Goals {
		if !g.IsValid(ws) {
			continue
		}
		u := g.Utility(ws)
		if best == nil || u > bestUtil {
			best = g
			bestUtil = u
		}
	}
	return best, bestUtil
}
