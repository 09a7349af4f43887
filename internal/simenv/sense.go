package simenv

import (
	"context"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
)

// sensor reads one bot's surroundings into a fresh world state each tick.
type sensor struct {
	env  *Env
	name string
}

// SensorFor returns a Sensor bound to the named bot.
func (e *Env) SensorFor(name string) *sensor {
	return &sensor{env: e, name: name}
}

// Sense snapshots everything the bot can see within its sense radius plus
// its own inventory and trip state. The returned state is independent of the
// world; acting on stale facts just means the next replan corrects course.
func (s *sensor) Sense(ctx context.Context) (*goap.WorldState, error) {
	e := s.env
	e.mu.Lock()
	defer e.mu.Unlock()

	av, err := e.avatarLocked(s.name)
	if err != nil {
		return nil, err
	}

	ws := goap.NewWorldState()

	nearbyDrops := 0
	for _, d := range e.drops {
		if dist(d.pos.X, d.pos.Y, av.pos.X, av.pos.Y) <= senseRadius {
			nearbyDrops++
		}
	}
	ws.Set(roles.KeyNearbyDrops, nearbyDrops)

	mature := 0
	for pos, c := range e.crops {
		if c.stage >= cropMature && dist(pos.X, pos.Y, av.pos.X, av.pos.Y) <= senseRadius {
			mature++
		}
	}
	ws.Set(roles.KeyMatureCrops, mature)

	ws.Set(roles.KeyNearbyTrees, e.terrain.countNearby(av.pos.X, av.pos.Y, senseRadius, func(t *Tile) int {
		return t.Trees
	}))

	// Ore is only visible from underground.
	nearbyOre := 0
	if av.depth > 0 {
		nearbyOre = e.terrain.countNearby(av.pos.X, av.pos.Y, senseRadius, func(t *Tile) int {
			return t.Ore
		})
	}
	ws.Set(roles.KeyNearbyOre, nearbyOre)

	ws.Set(roles.KeyTillableSoil, e.terrain.countNearby(av.pos.X, av.pos.Y, senseRadius, func(t *Tile) int {
		if t.Tillable && !t.Farmland {
			return 1
		}
		return 0
	}))
	ws.Set(roles.KeyFarmland, e.terrain.countNearby(av.pos.X, av.pos.Y, senseRadius, func(t *Tile) int {
		if t.Farmland {
			return 1
		}
		return 0
	}))

	ws.Set(roles.KeyHasHoe, av.tools["hoe"])
	ws.Set(roles.KeyHasAxe, av.tools["axe"])
	ws.Set(roles.KeyHasPickaxe, av.tools["pickaxe"])

	ws.Set(roles.KeyInvLogs, av.inv["log"])
	ws.Set(roles.KeyInvPlanks, av.inv["plank"])
	ws.Set(roles.KeyInvSticks, av.inv["stick"])
	ws.Set(roles.KeyInvSeeds, av.inv["seed"])
	ws.Set(roles.KeyInvWheat, av.inv["wheat"])
	ws.Set(roles.KeyInvOre, av.inv["ore"])
	ws.Set(roles.KeyInvSaplings, av.inv["sapling"])
	ws.Set(roles.KeyInvSurplus, av.surplus())

	ws.Set(roles.KeyDepth, av.depth)
	if av.explored {
		ws.Set(roles.KeyExploredTrip, 1)
	} else {
		ws.Set(roles.KeyExploredTrip, 0)
	}
	if av.mined {
		ws.Set(roles.KeyMinedTrip, 1)
	} else {
		ws.Set(roles.KeyMinedTrip, 0)
	}

	_, idx := e.pendingRequestLocked(s.name)
	ws.Set(roles.KeyRequestPending, idx >= 0)

	return ws, nil
}
