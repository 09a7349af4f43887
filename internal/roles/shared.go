package roles

import (
	"context"
	"fmt"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
)

// Ops is the executor-side surface the registries bind their actions to.
// Each method carries one primitive out against the live environment —
// simulated or remote — and may suspend across many ticks. A nil Ops yields
// planning-only registries (used by tests).
type Ops interface {
	CollectDrops(ctx context.Context) error
	HarvestCrops(ctx context.Context) error
	TillSoil(ctx context.Context) error
	PlantSeeds(ctx context.Context) error
	GatherLog(ctx context.Context) error
	Craft(ctx context.Context, item string) error
	ChopTrees(ctx context.Context) error
	PlantSaplings(ctx context.Context) error
	MineOre(ctx context.Context) error
	Descend(ctx context.Context) error
	Ascend(ctx context.Context) error
	DepositItems(ctx context.Context) error
	Wander(ctx context.Context) error
}

// Registry is one role's complete decision surface.
type Registry struct {
	Role    string
	Goals   []*goap.Goal
	Actions []*goap.Action
}

// ForRole builds the registry for a named role.
func ForRole(role string, ops Ops) (Registry, error) {
	switch role {
	case RoleFarmer:
		return Registry{Role: role, Goals: FarmerGoals(), Actions: FarmerActions(ops)}, nil
	case RoleLumberjack:
		return Registry{Role: role, Goals: LumberjackGoals(), Actions: LumberjackActions(ops)}, nil
	case RoleMiner:
		return Registry{Role: role, Goals: MinerGoals(), Actions: MinerActions(ops)}, nil
	default:
		return Registry{}, fmt.Errorf("unknown role %q", role)
	}
}

// run adapts an Ops method into a goap.RunFunc, tolerating a nil Ops.
func run(ops Ops, fn func(Ops, context.Context) error) goap.RunFunc {
	if ops == nil {
		return nil
	}
	return func(ctx context.Context, _ *goap.WorldState) error {
		return fn(ops, ctx)
	}
}

// saturating returns base + n·step capped at ceil, and 0 when n is not
// positive. The standard shape for count-driven utilities on the shared
// 0–250 scale.
func saturating(n, base, step, ceil float64) float64 {
	if n <= 0 {
		return 0
	}
	u := base + n*step
	if u > ceil {
		u = ceil
	}
	return u
}

// prepCost prices an action at base, adding surcharge for every listed
// precondition that does not yet hold — actions are cheaper when their
// materials are already in hand.
func prepCost(base, surcharge float64, conds ...goap.Condition) goap.CostFunc {
	return func(ws *goap.WorldState) float64 {
		c := base
		for _, cond := range conds {
			if !cond.Holds(ws) {
				c += surcharge
			}
		}
		return c
	}
}

// ExploreGoal is the always-valid fallback: low, slowly rising utility so an
// idle bot eventually wanders instead of stalling. Validity is overridden to
// unconditional true — arbitration must never come up empty.
func ExploreGoal() *goap.Goal {
	return goap.NewGoal("explore", "wander to discover new resources",
		[]goap.Condition{goap.NumAtLeast(KeyExploredTrip, 1)},
		func(ws *goap.WorldState) float64 {
			bonus := ws.GetNumber(KeyIdleTicks) / 10
			if bonus > 20 {
				bonus = 20
			}
			return 5 + bonus
		},
		func(*goap.WorldState) bool { return true })
}

// DepositItemsGoal answers an open cross-bot resource request. Its utility
// sits a full preemption margin above routine work so it interrupts
// mid-task (flat bar, not the relative one).
func DepositItemsGoal() *goap.Goal {
	return goap.NewGoal("deposit_items", "hand surplus items to a requesting bot",
		[]goap.Condition{goap.FlagClear(KeyRequestPending)},
		func(ws *goap.WorldState) float64 {
			if !ws.GetBool(KeyRequestPending) {
				return 0
			}
			return saturating(ws.GetNumber(KeyInvSurplus), 135, 5, 160)
		},
		nil)
}

// sharedGoals returns the goals every role carries.
func sharedGoals() []*goap.Goal {
	return []*goap.Goal{DepositItemsGoal(), ExploreGoal()}
}

// sharedActions returns the actions every role carries: exploration,
// deposit, and the wood half of the crafting tree.
func sharedActions(ops Ops) []*goap.Action {
	explore := goap.NewAction("explore",
		nil,
		func(*goap.WorldState) float64 { return 10 },
		[]goap.Effect{
			goap.SetNumber(KeyExploredTrip, 1),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.Wander(ctx) }))

	deposit := goap.NewAction("deposit_items",
		[]goap.Condition{goap.FlagSet(KeyRequestPending), goap.NumAtLeast(KeyInvSurplus, 1)},
		func(*goap.WorldState) float64 { return 4 },
		[]goap.Effect{
			goap.SetFlag(KeyRequestPending, false),
			goap.SetNumber(KeyInvSurplus, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.DepositItems(ctx) }))

	gatherLogs := goap.NewAction("gather_logs",
		nil,
		func(*goap.WorldState) float64 { return 8 },
		[]goap.Effect{goap.AddNumber(KeyInvLogs, 1)},
		run(ops, func(o Ops, ctx context.Context) error { return o.GatherLog(ctx) }))

	craftPlanks := goap.NewAction("craft_planks",
		[]goap.Condition{goap.NumAtLeast(KeyInvLogs, 1)},
		prepCost(2, 4, goap.NumAtLeast(KeyInvLogs, 1)),
		[]goap.Effect{
			goap.AddNumber(KeyInvPlanks, 4),
			goap.AddNumber(KeyInvLogs, -1),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.Craft(ctx, "planks") }))

	craftSticks := goap.NewAction("craft_sticks",
		[]goap.Condition{goap.NumAtLeast(KeyInvPlanks, 2)},
		prepCost(2, 4, goap.NumAtLeast(KeyInvPlanks, 2)),
		[]goap.Effect{
			goap.AddNumber(KeyInvSticks, 4),
			goap.AddNumber(KeyInvPlanks, -2),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.Craft(ctx, "sticks") }))

	return []*goap.Action{explore, deposit, gatherLogs, craftPlanks, craftSticks}
}

// craftToolAction builds a tool recipe: planks + sticks in, tool flag out.
// Cost drops when the materials are already in hand.
func craftToolAction(ops Ops, item, hasKey string, planks, sticks float64) *goap.Action {
	needPlanks := goap.NumAtLeast(KeyInvPlanks, planks)
	needSticks := goap.NumAtLeast(KeyInvSticks, sticks)
	return goap.NewAction("craft_"+item,
		[]goap.Condition{needPlanks, needSticks},
		prepCost(3, 3, needPlanks, needSticks),
		[]goap.Effect{
			goap.SetFlag(hasKey, true),
			goap.AddNumber(KeyInvPlanks, -planks),
			goap.AddNumber(KeyInvSticks, -sticks),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.Craft(ctx, item) }))
}

// obtainToolGoal builds the per-role "get the tool of the trade" goal. Each
// enabler names a count that marks work the tool unlocks; while every enabler
// is zero the goal scores nothing, so an idle bot explores instead of
// stockpiling tools. No enablers means the tool is always worth having.
func obtainToolGoal(tool, hasKey string, utility float64, enablers ...string) *goap.Goal {
	return goap.NewGoal("obtain_tools", "craft a "+tool,
		[]goap.Condition{goap.FlagSet(hasKey)},
		func(ws *goap.WorldState) float64 {
			if ws.GetBool(hasKey) {
				return 0
			}
			if len(enablers) == 0 {
				return utility
			}
			for _, key := range enablers {
				if ws.GetNumber(key) >= 1 {
					return utility
				}
			}
			return 0
		},
		nil)
}
