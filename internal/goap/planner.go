package goap

// Default search bounds. A decision tick must never stall, so both the
// recursion depth and the total number of candidate expansions are capped.
const (
	DefaultMaxDepth      = 16
	DefaultMaxExpansions = 4000
)

// Plan is an ordered action sequence computed for one (WorldState, Goal)
// pair, prerequisites first. When Success is false, Actions holds the
// deepest partial branch explored, for diagnostics only — the executor must
// treat it as "no usable plan".
type Plan struct {
	Actions []*Action
	Cost    float64
	Success bool
}

// Names returns the action names in plan order.
func (p Plan) Names() []string {
	names := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		names[i] = a.Name
	}
	return names
}

// Planner derives action plans by cost-bounded backward chaining: start
// from the goal conditions that do not yet hold, find actions whose declared
// effects can satisfy them, and recursively treat those actions' own unmet
// preconditions as sub-goals. The search is synchronous, pure, and performs
// no I/O.
type Planner struct {
	Actions       []*Action
	MaxDepth      int
	MaxExpansions int
}

// NewPlanner builds a planner over a role's action registry.
func NewPlanner(actions []*Action) *Planner {
	return &Planner{
		Actions:       actions,
		MaxDepth:      DefaultMaxDepth,
		MaxExpansions: DefaultMaxExpansions,
	}
}

// Plan computes an action sequence whose cumulative declared effects satisfy
// every goal condition, starting from ws. The live snapshot is never
// mutated; all simulation happens on clones.
func (p *Planner) Plan(ws *WorldState, goal *Goal) Plan {
	if goal.IsSatisfied(ws) {
		return Plan{Success: true}
	}

	s := &search{
		actions:    p.Actions,
		expansions: p.MaxExpansions,
	}
	if s.expansions <= 0 {
		s.expansions = DefaultMaxExpansions
	}
	depth := p.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}

	actions, cost, ok := s.solve(goal.Conditions, ws.Clone(), map[string]bool{}, depth)
	if !ok {
		return Plan{Actions: s.partial, Success: false}
	}
	return Plan{Actions: actions, Cost: cost, Success: true}
}

// search carries the mutable bookkeeping for one Plan call.
type search struct {
	actions    []*Action
	expansions int
	partial    []*Action // longest failed branch, kept for diagnostics
}

// solve resolves every condition in conds against the projection proj and
// returns the cheapest action sequence found. The used set holds the actions
// on the active resolution stack: an action may not appear among its own
// prerequisites, which breaks effect→precondition cycles, but it may repeat
// later in the sequence (gathering the third log is legal).
func (s *search) solve(conds []Condition, proj *WorldState, used map[string]bool, depth int) ([]*Action, float64, bool) {
	open := openConditions(conds, proj)
	if len(open) == 0 {
		return nil, 0, true
	}
	if depth <= 0 {
		return nil, 0, false
	}

	// Resolve the first open condition; the recursive call re-derives the
	// remaining open set, so effects that satisfy several conditions at
	// once are counted naturally.
	target := open[0]

	var (
		bestActions []*Action
		bestCost    float64
		found       bool
	)

	for _, cand := range s.actions {
		if used[cand.Name] || !cand.affects(target.Key) {
			continue
		}
		if s.expansions <= 0 {
			break
		}
		s.expansions--

		branch := proj.Clone()
		used[cand.Name] = true

		// Chain: satisfy the candidate's own preconditions first. The
		// recursion simulates on its own clones, so the prerequisite
		// sequence's effects are replayed here to advance branch before the
		// candidate itself is checked and costed.
		preActions, preCost, ok := s.solve(cand.Preconditions, branch, used, depth-1)
		if !ok {
			used[cand.Name] = false
			continue
		}
		for _, a := range preActions {
			a.ApplyEffects(branch)
		}
		if !cand.CheckPreconditions(branch) {
			used[cand.Name] = false
			continue
		}

		// Cost is evaluated against the projection at the point the action
		// is inserted, after its prerequisites have been simulated.
		stepCost := cand.Cost(branch)
		cand.ApplyEffects(branch)

		// The candidate's step is complete; it leaves the resolution stack
		// before the remaining conditions are solved.
		used[cand.Name] = false

		restActions, restCost, ok := s.solve(conds, branch, used, depth-1)
		if !ok {
			s.notePartial(append(preActions, cand))
			continue
		}

		total := preCost + stepCost + restCost
		seq := make([]*Action, 0, len(preActions)+1+len(restActions))
		seq = append(seq, preActions...)
		seq = append(seq, cand)
		seq = append(seq, restActions...)

		if !found || total < bestCost || (total == bestCost && len(seq) < len(bestActions)) {
			bestActions = seq
			bestCost = total
			found = true
		}
	}

	return bestActions, bestCost, found
}

func (s *search) notePartial(branch []*Action) {
	if len(branch) > len(s.partial) {
		s.partial = branch
	}
}
