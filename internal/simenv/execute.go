package simenv

import (
	"context"
	"fmt"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
)

// envOps binds one bot's action primitives to the shared world. Every method
// takes the world lock, does one tick's worth of work, and returns; the
// planner's sweep effects are optimistic and the next Sense corrects them.
type envOps struct {
	env  *Env
	name string
}

var _ roles.Ops = (*envOps)(nil)

// OpsFor returns the action surface for the named bot.
func (e *Env) OpsFor(name string) *envOps {
	return &envOps{env: e, name: name}
}

// do runs fn with the lock held and the avatar resolved. Any op other than
// wandering ends the current exploration trip.
func (o *envOps) do(resetTrip bool, fn func(*Env, *avatar) error) error {
	o.env.mu.Lock()
	defer o.env.mu.Unlock()

	av, err := o.env.avatarLocked(o.name)
	if err != nil {
		return err
	}
	if resetTrip {
		av.explored = false
	}
	return fn(o.env, av)
}

func (o *envOps) CollectDrops(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		for i, d := range e.drops {
			if dist(d.pos.X, d.pos.Y, av.pos.X, av.pos.Y) <= senseRadius {
				av.inv[d.item]++
				av.pos = d.pos
				e.drops = append(e.drops[:i], e.drops[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("no drops within reach of %s", o.name)
	})
}

func (o *envOps) HarvestCrops(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		for pos, c := range e.crops {
			if c.stage >= cropMature && dist(pos.X, pos.Y, av.pos.X, av.pos.Y) <= senseRadius {
				delete(e.crops, pos)
				av.pos = pos
				av.inv["wheat"]++
				av.inv["seed"] += 1 + e.rng.Intn(2)
				return nil
			}
		}
		return fmt.Errorf("no mature crops within reach of %s", o.name)
	})
}

func (o *envOps) TillSoil(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		if !av.tools["hoe"] {
			return fmt.Errorf("%s has no hoe", o.name)
		}
		tile, pos := o.findTile(e, av, func(t *Tile) bool { return t.Tillable && !t.Farmland })
		if tile == nil {
			return fmt.Errorf("no tillable soil within reach of %s", o.name)
		}
		tile.Farmland = true
		av.pos = pos
		return nil
	})
}

func (o *envOps) PlantSeeds(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		if av.inv["seed"] < 1 {
			return fmt.Errorf("%s has no seeds", o.name)
		}
		for y := av.pos.Y - senseRadius; y <= av.pos.Y+senseRadius; y++ {
			for x := av.pos.X - senseRadius; x <= av.pos.X+senseRadius; x++ {
				tile := e.terrain.At(x, y)
				if tile == nil || !tile.Farmland {
					continue
				}
				pos := point{X: x, Y: y}
				if _, occupied := e.crops[pos]; occupied {
					continue
				}
				av.inv["seed"]--
				e.crops[pos] = &crop{pos: pos}
				av.pos = pos
				return nil
			}
		}
		return fmt.Errorf("no free farmland within reach of %s", o.name)
	})
}

func (o *envOps) GatherLog(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		tile, pos := o.findTile(e, av, func(t *Tile) bool { return t.Trees > 0 })
		if tile == nil {
			return fmt.Errorf("no trees within reach of %s", o.name)
		}
		tile.Trees--
		av.inv["log"]++
		av.pos = pos
		return nil
	})
}

// recipes maps a craftable item to its material costs. Tool entries set a
// tool flag instead of adding inventory.
var recipes = map[string]struct {
	logs, planks, sticks int
	yieldItem            string
	yieldCount           int
	tool                 bool
}{
	"planks":  {logs: 1, yieldItem: "plank", yieldCount: 4},
	"sticks":  {planks: 2, yieldItem: "stick", yieldCount: 4},
	"hoe":     {planks: 2, sticks: 2, tool: true},
	"axe":     {planks: 3, sticks: 2, tool: true},
	"pickaxe": {planks: 3, sticks: 2, tool: true},
}

func (o *envOps) Craft(ctx context.Context, item string) error {
	return o.do(true, func(e *Env, av *avatar) error {
		r, ok := recipes[item]
		if !ok {
			return fmt.Errorf("unknown recipe %q", item)
		}
		if av.inv["log"] < r.logs || av.inv["plank"] < r.planks || av.inv["stick"] < r.sticks {
			return fmt.Errorf("%s lacks materials for %s", o.name, item)
		}
		av.inv["log"] -= r.logs
		av.inv["plank"] -= r.planks
		av.inv["stick"] -= r.sticks
		if r.tool {
			av.tools[item] = true
			return nil
		}
		av.inv[r.yieldItem] += r.yieldCount
		return nil
	})
}

func (o *envOps) ChopTrees(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		if !av.tools["axe"] {
			return fmt.Errorf("%s has no axe", o.name)
		}
		tile, pos := o.findTile(e, av, func(t *Tile) bool { return t.Trees > 0 })
		if tile == nil {
			return fmt.Errorf("no trees within reach of %s", o.name)
		}
		tile.Trees--
		av.inv["log"] += 4
		av.pos = pos
		if e.rng.Float64() < 0.5 {
			av.inv["sapling"]++
		}
		return nil
	})
}

func (o *envOps) PlantSaplings(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		if av.inv["sapling"] < 1 {
			return fmt.Errorf("%s has no saplings", o.name)
		}
		tile, pos := o.findTile(e, av, func(t *Tile) bool { return t.Trees == 0 && !t.Farmland })
		if tile == nil {
			return fmt.Errorf("no open ground within reach of %s", o.name)
		}
		av.inv["sapling"]--
		tile.Trees++ // Toy model: saplings become trees immediately
		av.pos = pos
		return nil
	})
}

func (o *envOps) MineOre(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		if !av.tools["pickaxe"] {
			return fmt.Errorf("%s has no pickaxe", o.name)
		}
		if av.depth < 1 {
			return fmt.Errorf("%s is on the surface", o.name)
		}
		tile, pos := o.findTile(e, av, func(t *Tile) bool { return t.Ore > 0 })
		if tile == nil {
			return fmt.Errorf("no ore within reach of %s", o.name)
		}
		tile.Ore--
		av.inv["ore"]++
		av.pos = pos
		av.mined = true
		return nil
	})
}

func (o *envOps) Descend(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		if !av.tools["pickaxe"] {
			return fmt.Errorf("%s has no pickaxe", o.name)
		}
		if av.depth >= maxDepth {
			return fmt.Errorf("%s is at bedrock", o.name)
		}
		av.depth += descendStep
		av.mined = false
		return nil
	})
}

func (o *envOps) Ascend(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		av.depth = 0
		return nil
	})
}

func (o *envOps) DepositItems(ctx context.Context) error {
	return o.do(true, func(e *Env, av *avatar) error {
		req, idx := o.env.pendingRequestLocked(o.name)
		if idx < 0 {
			return fmt.Errorf("no pending request for %s", o.name)
		}
		recipient, err := e.avatarLocked(req.from)
		if err != nil {
			return err
		}
		moved := 0
		budget := av.surplus()
		if n := av.inv[req.item]; n > 0 {
			if n > budget {
				n = budget
			}
			av.inv[req.item] -= n
			recipient.inv[req.item] += n
			moved = n
		}
		// The request stays queued until something actually transfers, so a
		// bot that arrives empty-handed can try again after restocking.
		if moved == 0 {
			return fmt.Errorf("%s has no spare %s for %s", o.name, req.item, req.from)
		}
		e.requests = append(e.requests[:idx], e.requests[idx+1:]...)
		return nil
	})
}

func (o *envOps) Wander(ctx context.Context) error {
	return o.do(false, func(e *Env, av *avatar) error {
		av.pos.X = clamp(av.pos.X+e.rng.Intn(7)-3, 0, e.terrain.Size-1)
		av.pos.Y = clamp(av.pos.Y+e.rng.Intn(7)-3, 0, e.terrain.Size-1)
		av.explored = true
		return nil
	})
}

// findTile scans the bot's reach for the nearest tile matching pred.
func (o *envOps) findTile(e *Env, av *avatar, pred func(*Tile) bool) (*Tile, point) {
	for r := 0; r <= senseRadius; r++ {
		for y := av.pos.Y - r; y <= av.pos.Y+r; y++ {
			for x := av.pos.X - r; x <= av.pos.X+r; x++ {
				if dist(x, y, av.pos.X, av.pos.Y) != r {
					continue
				}
				if tile := e.terrain.At(x, y); tile != nil && pred(tile) {
					return tile, point{X: x, Y: y}
				}
			}
		}
	}
	return nil, point{}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
