package roles

import (
	"context"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
)

// LumberjackGoals returns the lumberjack's goal set. Chopping scales with
// visible trees; replanting keeps the grove alive at a lower tier.
func LumberjackGoals() []*goap.Goal {
	chopTrees := goap.NewGoal("chop_trees", "fell every tree in sight",
		[]goap.Condition{goap.NumBelow(KeyNearbyTrees, 1)},
		func(ws *goap.WorldState) float64 {
			return saturating(ws.GetNumber(KeyNearbyTrees), 35, 12, 130)
		},
		nil)

	replant := goap.NewGoal("replant_saplings", "replant the grove",
		[]goap.Condition{goap.NumBelow(KeyInvSaplings, 1)},
		func(ws *goap.WorldState) float64 {
			return saturating(ws.GetNumber(KeyInvSaplings), 25, 5, 60)
		},
		nil)

	goals := []*goap.Goal{
		chopTrees,
		replant,
		obtainToolGoal("axe", KeyHasAxe, 70, KeyNearbyTrees),
	}
	return append(goals, sharedGoals()...)
}

// LumberjackActions returns the lumberjack's action set bound to ops.
func LumberjackActions(ops Ops) []*goap.Action {
	chop := goap.NewAction("chop_trees",
		[]goap.Condition{goap.FlagSet(KeyHasAxe), goap.NumAtLeast(KeyNearbyTrees, 1)},
		prepCost(5, 8, goap.FlagSet(KeyHasAxe)),
		[]goap.Effect{
			chopYield(),
			goap.AddNumber(KeyInvSaplings, 1),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.ChopTrees(ctx) }))

	plantSaplings := goap.NewAction("plant_saplings",
		[]goap.Condition{goap.NumAtLeast(KeyInvSaplings, 1)},
		func(*goap.WorldState) float64 { return 3 },
		[]goap.Effect{
			goap.SetNumber(KeyInvSaplings, 0),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.PlantSaplings(ctx) }))

	actions := []*goap.Action{
		chop,
		plantSaplings,
		craftToolAction(ops, "axe", KeyHasAxe, 3, 2),
	}
	return append(actions, sharedActions(ops)...)
}

// chopYield empties the visible trees and credits four logs apiece.
func chopYield() goap.Effect {
	return goap.Effect{Key: KeyNearbyTrees, Apply: func(ws *goap.WorldState) {
		trees := ws.GetNumber(KeyNearbyTrees)
		ws.Set(KeyInvLogs, ws.GetNumber(KeyInvLogs)+trees*4)
		ws.Set(KeyNearbyTrees, 0)
	}}
}
