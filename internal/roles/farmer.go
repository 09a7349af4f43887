package roles

import (
	"context"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
)

// FarmerGoals returns the farmer's goal set, most specific work first.
// Utilities are calibrated so drop collection outbids harvesting, which
// outbids planting, and tool acquisition beats all routine work while the
// hoe is missing.
func FarmerGoals() []*goap.Goal {
	collectDrops := goap.NewGoal("collect_drops", "pick up item drops before they despawn",
		[]goap.Condition{goap.NumBelow(KeyNearbyDrops, 1)},
		func(ws *goap.WorldState) float64 {
			return saturating(ws.GetNumber(KeyNearbyDrops), 100, 10, 150)
		},
		nil)

	harvestCrops := goap.NewGoal("harvest_crops", "harvest mature wheat",
		[]goap.Condition{goap.NumBelow(KeyMatureCrops, 1)},
		func(ws *goap.WorldState) float64 {
			return saturating(ws.GetNumber(KeyMatureCrops), 28, 10, 120)
		},
		nil)

	plantCrops := goap.NewGoal("plant_crops", "sow every seed in the bag",
		[]goap.Condition{goap.NumBelow(KeyInvSeeds, 1)},
		func(ws *goap.WorldState) float64 {
			if ws.GetNumber(KeyTillableSoil)+ws.GetNumber(KeyFarmland) < 1 {
				return 0
			}
			return saturating(ws.GetNumber(KeyInvSeeds), 20, 8, 90)
		},
		nil)

	goals := []*goap.Goal{
		collectDrops,
		harvestCrops,
		plantCrops,
		obtainToolGoal("hoe", KeyHasHoe, 60, KeyTillableSoil),
	}
	return append(goals, sharedGoals()...)
}

// FarmerActions returns the farmer's action set bound to ops.
func FarmerActions(ops Ops) []*goap.Action {
	collect := goap.NewAction("collect_drops",
		[]goap.Condition{goap.NumAtLeast(KeyNearbyDrops, 1)},
		func(ws *goap.WorldState) float64 { return 2 + ws.GetNumber(KeyNearbyDrops)*0.5 },
		[]goap.Effect{
			sweepInto(KeyNearbyDrops, KeyInvSurplus),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.CollectDrops(ctx) }))

	harvest := goap.NewAction("harvest_crops",
		[]goap.Condition{goap.NumAtLeast(KeyMatureCrops, 1)},
		func(ws *goap.WorldState) float64 { return 3 + ws.GetNumber(KeyMatureCrops) },
		[]goap.Effect{
			sweepInto(KeyMatureCrops, KeyInvWheat),
			goap.AddNumber(KeyInvSeeds, 1),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.HarvestCrops(ctx) }))

	till := goap.NewAction("till_soil",
		[]goap.Condition{goap.FlagSet(KeyHasHoe), goap.NumAtLeast(KeyTillableSoil, 1)},
		prepCost(4, 6, goap.FlagSet(KeyHasHoe)),
		[]goap.Effect{
			goap.AddNumber(KeyFarmland, 1),
			goap.AddNumber(KeyTillableSoil, -1),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.TillSoil(ctx) }))

	plant := goap.NewAction("plant_seeds",
		[]goap.Condition{goap.NumAtLeast(KeyInvSeeds, 1), goap.NumAtLeast(KeyFarmland, 1)},
		func(*goap.WorldState) float64 { return 3 },
		[]goap.Effect{
			goap.SetNumber(KeyInvSeeds, 0),
			goap.SetNumber(KeyIdleTicks, 0),
		},
		run(ops, func(o Ops, ctx context.Context) error { return o.PlantSeeds(ctx) }))

	actions := []*goap.Action{
		collect,
		harvest,
		till,
		plant,
		craftToolAction(ops, "hoe", KeyHasHoe, 2, 2),
	}
	return append(actions, sharedActions(ops)...)
}

// sweepInto is the symbolic effect of a "do them all" action: the counted
// resource empties and the matching inventory grows by the same amount. The
// executor still works one item per tick and replans off fresh snapshots.
func sweepInto(fromKey, toKey string) goap.Effect {
	return goap.Effect{Key: fromKey, Apply: func(ws *goap.WorldState) {
		n := ws.GetNumber(fromKey)
		ws.Set(toKey, ws.GetNumber(toKey)+n)
		ws.Set(fromKey, 0)
	}}
}
