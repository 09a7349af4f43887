package simenv

import (
	"fmt"
	"math/rand"
	"sync"
)

const (
	senseRadius  = 4   // How far a bot's senses reach, in tiles
	cropMature   = 7   // Growth stage at which a crop can be harvested
	dropLifetime = 400 // Ticks before an unclaimed drop despawns
	descendStep  = 16  // Depth gained per descend action
	maxDepth     = 48
	surplusKeep  = 8 // Items a bot keeps for itself before counting surplus
)

type point struct {
	X, Y int
}

type crop struct {
	pos   point
	stage int
}

type drop struct {
	pos  point
	item string
	age  int
}

// request is an open resource transfer another bot has asked for.
type request struct {
	target string // Bot expected to fulfil the request
	from   string // Bot that asked
	item   string
}

// avatar is a bot's body in the world: position, inventory, tools.
type avatar struct {
	name     string
	pos      point
	inv      map[string]int
	tools    map[string]bool
	depth    int
	explored bool // Wandered since the last productive action
	mined    bool // Brought ore up since the last descent
}

// Env is the shared world. One mutex guards everything; the tick loop and
// every bot's sensing and acting go through it.
type Env struct {
	mu      sync.Mutex
	terrain *Terrain
	rng     *rand.Rand
	tick    uint64

	bots     map[string]*avatar
	crops    map[point]*crop
	drops    []drop
	requests []request
}

// NewEnv wraps a generated terrain in a live world.
func NewEnv(terrain *Terrain, seed int64) *Env {
	return &Env{
		terrain: terrain,
		rng:     rand.New(rand.NewSource(seed)),
		bots:    make(map[string]*avatar),
		crops:   make(map[point]*crop),
	}
}

// AddBot places a new avatar near the middle of the map.
func (e *Env) AddBot(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.bots[name]; ok {
		return fmt.Errorf("bot %q already exists", name)
	}

	mid := e.terrain.Size / 2
	e.bots[name] = &avatar{
		name:  name,
		pos:   point{X: mid + e.rng.Intn(5) - 2, Y: mid + e.rng.Intn(5) - 2},
		inv:   make(map[string]int),
		tools: make(map[string]bool),
	}
	return nil
}

// RequestResource registers a transfer request: `target` should hand `item`
// surplus over to `from`. Bots see it as a pending coordination flag.
func (e *Env) RequestResource(from, target, item string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, request{target: target, from: from, item: item})
}

// Step advances world time by one tick: crops grow, drops age out.
func (e *Env) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick++

	// Fertile soil matures crops faster.
	for pos, c := range e.crops {
		if c.stage >= cropMature {
			continue
		}
		tile := e.terrain.At(pos.X, pos.Y)
		if tile == nil {
			continue
		}
		rate := 0.02 + tile.Fertility*0.08
		if e.rng.Float64() < rate {
			c.stage++
		}
	}

	kept := e.drops[:0]
	for _, d := range e.drops {
		d.age++
		if d.age < dropLifetime {
			kept = append(kept, d)
		}
	}
	e.drops = kept
}

// Tick returns the current world tick.
func (e *Env) Tick() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// spawnDrop places an item on the ground near a position.
func (e *Env) spawnDrop(pos point, item string) {
	e.drops = append(e.drops, drop{pos: pos, item: item})
}

func (e *Env) avatarLocked(name string) (*avatar, error) {
	av, ok := e.bots[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q", name)
	}
	return av, nil
}

// pendingRequestLocked finds the first open request targeting a bot.
func (e *Env) pendingRequestLocked(name string) (request, int) {
	for i, r := range e.requests {
		if r.target == name {
			return r, i
		}
	}
	return request{}, -1
}

// surplus is how many items beyond the personal reserve a bot carries.
func (av *avatar) surplus() int {
	total := 0
	for _, n := range av.inv {
		total += n
	}
	if total <= surplusKeep {
		return 0
	}
	return total - surplusKeep
}
