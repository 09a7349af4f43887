package goap

// UtilityFunc scores a goal's desirability for the current snapshot.
// Scores share a calibrated 0–250 scale across all role registries; the
// arbiter compares them with flat margins, so absolute magnitude matters.
// Zero means "not applicable now".
type UtilityFunc func(ws *WorldState) float64

// ValidityFunc gates a goal on or off regardless of its utility.
type ValidityFunc func(ws *WorldState) bool

// Goal is an immutable, named target condition set with a desirability
// score. Goals are built once per role at startup and carry no per-tick
// state.
type Goal struct {
	Name        string
	Description string
	Conditions  []Condition

	utility  UtilityFunc
	validity ValidityFunc
}

// NewGoal constructs a goal. A nil validity defaults to always-valid.
func NewGoal(name, description string, conditions []Condition, utility UtilityFunc, validity ValidityFunc) *Goal {
	if validity == nil {
		validity = func(*WorldState) bool { return true }
	}
	return &Goal{
		Name:        name,
		Description: description,
		Conditions:  conditions,
		utility:     utility,
		validity:    validity,
	}
}

// IsSatisfied reports whether every termination condition holds in ws.
func (g *Goal) IsSatisfied(ws *WorldState) bool {
	return allHold(g.Conditions, ws)
}

// IsValid reports whether the goal may be considered at all for ws.
func (g *Goal) IsValid(ws *WorldState) bool {
	return g.validity(ws)
}

// Utility returns the goal's desirability for ws.
func (g *Goal) Utility(ws *WorldState) float64 {
	return g.utility(ws)
}
