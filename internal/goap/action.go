package goap

import "context"

// CostFunc prices an action against a snapshot. Costs are strictly positive
// and only ever compared between candidate plans — they do not feed goal
// utility. Cost may vary with how much preparatory work remains (an action
// is cheaper when its materials are already in hand).
type CostFunc func(ws *WorldState) float64

// Effect is one symbolic mutation an action is expected to make to a
// WorldState key. Effects drive the planner's projection exclusively; the
// live executor never applies them.
type Effect struct {
	Key   string
	Apply func(ws *WorldState)
}

// AddNumber returns an effect that increments key by delta.
func AddNumber(key string, delta float64) Effect {
	return Effect{Key: key, Apply: func(ws *WorldState) {
		ws.Set(key, ws.GetNumber(key)+delta)
	}}
}

// SetNumber returns an effect that sets key to n.
func SetNumber(key string, n float64) Effect {
	return Effect{Key: key, Apply: func(ws *WorldState) { ws.Set(key, n) }}
}

// SetFlag returns an effect that sets the boolean key to b.
func SetFlag(key string, b bool) Effect {
	return Effect{Key: key, Apply: func(ws *WorldState) { ws.Set(key, b) }}
}

// RunFunc carries an action out against the live environment. It is opaque
// to the planner and invoked only by the external executor.
type RunFunc func(ctx context.Context, ws *WorldState) error

// Action is an immutable primitive step: preconditions that must hold
// before it can be planned or executed, a cost for plan comparison, and a
// symbolic effect model accurate enough that chaining actions produces a
// projection in which downstream preconditions can be judged.
type Action struct {
	Name          string
	Preconditions []Condition
	Effects       []Effect

	cost CostFunc

	// Run executes the action for real. May be nil in registries used for
	// planning-only tests.
	Run RunFunc
}

// NewAction constructs an action. A nil cost defaults to a flat 1.
func NewAction(name string, pre []Condition, cost CostFunc, effects []Effect, run RunFunc) *Action {
	if cost == nil {
		cost = func(*WorldState) float64 { return 1 }
	}
	return &Action{
		Name:          name,
		Preconditions: pre,
		Effects:       effects,
		cost:          cost,
		Run:           run,
	}
}

// CheckPreconditions reports whether every precondition holds in ws.
func (a *Action) CheckPreconditions(ws *WorldState) bool {
	return allHold(a.Preconditions, ws)
}

// Cost returns the action's price for ws. Always > 0.
func (a *Action) Cost(ws *WorldState) float64 {
	c := a.cost(ws)
	if c <= 0 {
		c = 1
	}
	return c
}

// ApplyEffects advances a projected snapshot by the action's declared
// effects. Planner use only.
func (a *Action) ApplyEffects(ws *WorldState) {
	for _, e := range a.Effects {
		e.Apply(ws)
	}
}

// affects reports whether the action declares an effect on key.
func (a *Action) affects(key string) bool {
	for _, e := range a.Effects {
		if e.Key == key {
			return true
		}
	}
	return false
}
