// Package roles supplies the fixed goal and action registries each bot role
// is built from at startup. The decision core is registry-agnostic; all the
// Minecraft-specific knowledge (recipes, tool gates, utility calibration)
// lives here.
package roles

// WorldState keys shared between sensing, goals, and actions. Sensing owns
// how the values are computed; this package only cares about their types.
const (
	KeyNearbyDrops   = "nearby.drops"
	KeyMatureCrops   = "nearby.matureCrops"
	KeyNearbyTrees   = "nearby.trees"
	KeyNearbyOre     = "nearby.ore"
	KeyTillableSoil  = "nearby.tillableSoil"
	KeyFarmland      = "nearby.farmland"

	KeyHasHoe     = "has.hoe"
	KeyHasAxe     = "has.axe"
	KeyHasPickaxe = "has.pickaxe"

	KeyInvLogs     = "inv.logs"
	KeyInvPlanks   = "inv.planks"
	KeyInvSticks   = "inv.sticks"
	KeyInvSeeds    = "inv.seeds"
	KeyInvWheat    = "inv.wheat"
	KeyInvOre      = "inv.ore"
	KeyInvSaplings = "inv.saplings"
	KeyInvSurplus  = "inv.surplus"

	KeyIdleTicks    = "state.consecutiveIdleTicks"
	KeyDepth        = "state.depth"
	KeyExploredTrip = "state.exploredThisTrip"
	KeyMinedTrip    = "state.minedThisTrip"

	// Set by sensing when the chat coordination layer has an open resource
	// request for this bot. The protocol itself stays outside the core.
	KeyRequestPending = "coord.requestPending"
)

// Role names accepted by ForRole and the herd config.
const (
	RoleFarmer     = "farmer"
	RoleLumberjack = "lumberjack"
	RoleMiner      = "miner"
)
