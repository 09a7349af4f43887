package roles

import (
	"context"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
)

// MinerGoals returns the miner's goal set. Mining is the default work once
// a pickaxe exists; returning to the surface is validity-gated on depth so
// it never competes while the bot is already topside.
func MinerGoals() []*goap.Goal {
	mineOre := goap.NewGoal("mine_ore", "dig for exposed ore",
		[]goap.Condition{goap.NumAtLeast(KeyMinedTrip, 1), goap.NumBelow(KeyNearbyOre, 1)},
		func(ws *goap.WorldState) float64 {
			if !ws.GetBool(KeyHasPickaxe) {
				return 0
			}
			u := 45 + ws.GetNumber(KeyNearbyOre)*15
			if u > 140 {
				u = 140
			}
			return u
		},
		nil)

	returnToSurface := goap.NewGoal("return_to_surface", "climb back to daylight",
		[]goap.Condition{goap.NumBelow(KeyDepth, 1)},
		func(ws *goap.WorldState) float64 {
			u := 25 + ws.GetNumber(KeyDepth)*1.5
			if u > 90 {
				u = 90
			}
			return u
		},
		func(ws *goap.WorldState) bool { return ws.GetNumber(KeyDepth) >= 1 })

	goals := []*goap.Goal{
		mineOre,
		returnToSurface,
		// The pickaxe stays ungated: descend is conditioned on it, so it
		// always unlocks work.
		obtainToolGoal("pickaxe", KeyHasPickaxe, 70),
	}
	return append(goals, sharedGoals()...)
}

// MinerActions returns the miner's action set bound to ops.
func MinerActions(ops Ops) []*goap.Action {
	descend := goap.NewAction("descend",
		[]goap.Condition{goap.FlagSet(KeyHasPickaxe)},
		func(*goap.WorldState) float64 { return 6 },
		[]goap.Effect{
			goap.AddNumber(KeyDepth, 16),
			// Digging down exposes fresh faces; the count is a planning
			// estimate, corrected by the next real observation.
			goap.AddNumber(KeyNearbyOre, 3),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.Descend(ctx) }))

	mine := goap.NewAction("mine_ore",
		[]goap.Condition{goap.FlagSet(KeyHasPickaxe), goap.NumAtLeast(KeyNearbyOre, 1)},
		prepCost(4, 8, goap.FlagSet(KeyHasPickaxe)),
		[]goap.Effect{
			mineYield(),
			goap.SetNumber(KeyMinedTrip, 1),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.MineOre(ctx) }))

	ascend := goap.NewAction("ascend",
		[]goap.Condition{goap.NumAtLeast(KeyDepth, 1)},
		func(ws *goap.WorldState) float64 { return 2 + ws.GetNumber(KeyDepth)*0.25 },
		[]goap.Effect{goap.SetNumber(KeyDepth, 0)},
		run(ops, func(o Ops, ctx context.Context) error { return o.Ascend(ctx) }))

	actions := []*goap.Action{
		descend,
		mine,
		ascend,
		craftToolAction(ops, "pickaxe", KeyHasPickaxe, 3, 2),
	}
	return append(actions, sharedActions(ops)...)
}

// mineYield empties the exposed ore into the inventory.
func mineYield() goap.Effect {
	return goap.Effect{Key: KeyNearbyOre, Apply: func(ws *goap.WorldState) {
		ore := ws.GetNumber(KeyNearbyOre)
		ws.Set(KeyInvOre, ws.GetNumber(KeyInvOre)+ore)
		ws.Set(KeyNearbyOre, 0)
	}}
}
