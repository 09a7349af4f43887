package goap

import "fmt"

// Condition is an immutable predicate over a single WorldState key.
// Goals use conditions as termination criteria; actions use the same type
// for preconditions, which lets the planner treat an unmet precondition as
// a sub-goal and chain backward through it.
type Condition struct {
	Key   string
	Test  func(ws *WorldState) bool
	Desc  string
}

// Holds reports whether the condition is satisfied in ws.
func (c Condition) Holds(ws *WorldState) bool {
	return c.Test(ws)
}

// NumAtLeast is satisfied when the numeric value under key is >= n.
func NumAtLeast(key string, n float64) Condition {
	return Condition{
		Key:  key,
		Test: func(ws *WorldState) bool { return ws.GetNumber(key) >= n },
		Desc: fmt.Sprintf("%s >= %g", key, n),
	}
}

// NumBelow is satisfied when the numeric value under key is < n.
func NumBelow(key string, n float64) Condition {
	return Condition{
		Key:  key,
		Test: func(ws *WorldState) bool { return ws.GetNumber(key) < n },
		Desc: fmt.Sprintf("%s < %g", key, n),
	}
}

// FlagSet is satisfied when the boolean under key is true.
func FlagSet(key string) Condition {
	return Condition{
		Key:  key,
		Test: func(ws *WorldState) bool { return ws.GetBool(key) },
		Desc: key,
	}
}

// FlagClear is satisfied when the boolean under key is false or absent.
func FlagClear(key string) Condition {
	return Condition{
		Key:  key,
		Test: func(ws *WorldState) bool { return !ws.GetBool(key) },
		Desc: "not " + key,
	}
}

// StringIs is satisfied when the string under key equals want.
func StringIs(key, want string) Condition {
	return Condition{
		Key:  key,
		Test: func(ws *WorldState) bool { return ws.GetString(key) == want },
		Desc: fmt.Sprintf("%s == %q", key, want),
	}
}

// allHold reports whether every condition holds in ws.
func allHold(conds []Condition, ws *WorldState) bool {
	for _, c := range conds {
		if !c.Holds(ws) {
			return false
		}
	}
	return true
}

// openConditions returns the conditions from conds that do not hold in ws.
func openConditions(conds []Condition, ws *WorldState) []Condition {
	var open []Condition
	for _, c := range conds {
		if !c.Holds(ws) {
			open = append(open, c)
		}
	}
	return open
}
