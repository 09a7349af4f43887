package simenv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	require.Equal(t, a.Size, b.Size)
	for y := 0; y < a.Size; y++ {
		for x := 0; x < a.Size; x++ {
			assert.Equal(t, *a.At(x, y), *b.At(x, y), "tile (%d,%d)", x, y)
		}
	}
}

func TestGenerateVariety(t *testing.T) {
	terrain := Generate(DefaultGenConfig())

	trees, ore, tillable := 0, 0, 0
	for y := 0; y < terrain.Size; y++ {
		for x := 0; x < terrain.Size; x++ {
			tile := terrain.At(x, y)
			trees += tile.Trees
			ore += tile.Ore
			if tile.Tillable {
				tillable++
			}
		}
	}

	assert.Positive(t, trees, "world should have forests")
	assert.Positive(t, ore, "world should have ore veins")
	assert.Positive(t, tillable, "world should have arable land")
}

func TestTerrainAtOutOfBounds(t *testing.T) {
	terrain := Generate(GenConfig{Size: 8, Seed: 1})

	assert.Nil(t, terrain.At(-1, 0))
	assert.Nil(t, terrain.At(0, 8))
	assert.NotNil(t, terrain.At(7, 7))
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	env := NewEnv(Generate(DefaultGenConfig()), 7)
	require.NoError(t, env.AddBot("tester"))
	return env
}

func TestAddBotRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.AddBot("tester"))
}

func TestCraftChainAgainstLiveInventory(t *testing.T) {
	env := newTestEnv(t)
	ops := env.OpsFor("tester")
	ctx := context.Background()

	require.Error(t, ops.Craft(ctx, "planks"), "no logs yet")

	env.mu.Lock()
	env.bots["tester"].inv["log"] = 2
	env.mu.Unlock()

	require.NoError(t, ops.Craft(ctx, "planks"))
	require.NoError(t, ops.Craft(ctx, "sticks"))
	require.NoError(t, ops.Craft(ctx, "hoe"))

	ws, err := env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.True(t, ws.GetBool(roles.KeyHasHoe))
	assert.Equal(t, 1.0, ws.GetNumber(roles.KeyInvLogs))
	assert.Equal(t, 0.0, ws.GetNumber(roles.KeyInvPlanks))
}

func TestCraftUnknownRecipe(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.OpsFor("tester").Craft(context.Background(), "anvil"))
}

func TestSenseReflectsDropsAndRequests(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.AddBot("asker"))
	ctx := context.Background()

	env.mu.Lock()
	pos := env.bots["tester"].pos
	env.spawnDrop(pos, "wheat")
	env.spawnDrop(point{X: pos.X + 1, Y: pos.Y}, "seed")
	env.mu.Unlock()
	env.RequestResource("asker", "tester", "wheat")

	ws, err := env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, ws.GetNumber(roles.KeyNearbyDrops))
	assert.True(t, ws.GetBool(roles.KeyRequestPending))

	require.NoError(t, env.OpsFor("tester").CollectDrops(ctx))
	ws, err = env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ws.GetNumber(roles.KeyNearbyDrops))
}

func TestDepositTransfersSurplus(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.AddBot("asker"))
	ctx := context.Background()

	env.mu.Lock()
	env.bots["tester"].inv["wheat"] = 14
	env.mu.Unlock()
	env.RequestResource("asker", "tester", "wheat")

	require.NoError(t, env.OpsFor("tester").DepositItems(ctx))

	env.mu.Lock()
	defer env.mu.Unlock()
	assert.Equal(t, 6, env.bots["asker"].inv["wheat"], "surplus beyond the reserve moves over")
	assert.Equal(t, 8, env.bots["tester"].inv["wheat"])
	assert.Empty(t, env.requests)
}

// A deposit that moves nothing must leave the request queued, so the asker
// is not silently dropped when the carrier has no surplus yet.
func TestFailedDepositKeepsRequestPending(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.AddBot("asker"))
	ctx := context.Background()

	env.mu.Lock()
	env.bots["tester"].inv["wheat"] = 5 // under the reserve, no surplus
	env.mu.Unlock()
	env.RequestResource("asker", "tester", "wheat")

	assert.Error(t, env.OpsFor("tester").DepositItems(ctx))

	ws, err := env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.True(t, ws.GetBool(roles.KeyRequestPending), "unserved request stays open")

	env.mu.Lock()
	defer env.mu.Unlock()
	assert.Equal(t, 5, env.bots["tester"].inv["wheat"], "nothing moved")
	assert.Zero(t, env.bots["asker"].inv["wheat"])
	assert.Len(t, env.requests, 1)
}

func TestDepositWithoutRequestFails(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.OpsFor("tester").DepositItems(context.Background()))
}

func TestOreOnlyVisibleUnderground(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ops := env.OpsFor("tester")

	require.Error(t, ops.Descend(ctx), "descending needs a pickaxe")
	require.Error(t, ops.MineOre(ctx), "mining needs a pickaxe")

	env.mu.Lock()
	env.bots["tester"].tools["pickaxe"] = true
	env.mu.Unlock()

	ws, err := env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ws.GetNumber(roles.KeyNearbyOre), "surface hides ore")

	require.NoError(t, ops.Descend(ctx))
	ws, err = env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16.0, ws.GetNumber(roles.KeyDepth))

	require.NoError(t, ops.Ascend(ctx))
	ws, err = env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ws.GetNumber(roles.KeyDepth))
}

func TestFarmingCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ops := env.OpsFor("tester")

	env.mu.Lock()
	av := env.bots["tester"]
	av.tools["hoe"] = true
	av.inv["seed"] = 1
	// Park the bot on guaranteed arable ground.
	tile := env.terrain.At(av.pos.X, av.pos.Y)
	tile.Trees = 0
	tile.Fertility = 0.9
	tile.Tillable = true
	env.mu.Unlock()

	require.NoError(t, ops.TillSoil(ctx))
	require.NoError(t, ops.PlantSeeds(ctx))

	// Force the crop ripe rather than stepping the RNG for hundreds of ticks.
	env.mu.Lock()
	for _, c := range env.crops {
		c.stage = cropMature
	}
	env.mu.Unlock()

	require.NoError(t, ops.HarvestCrops(ctx))

	ws, err := env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ws.GetNumber(roles.KeyInvWheat))
	assert.GreaterOrEqual(t, ws.GetNumber(roles.KeyInvSeeds), 1.0, "harvest returns seeds")
}

func TestWanderMarksTripAndWorkClearsIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ops := env.OpsFor("tester")

	require.NoError(t, ops.Wander(ctx))
	ws, err := env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ws.GetNumber(roles.KeyExploredTrip))

	env.mu.Lock()
	env.bots["tester"].inv["log"] = 1
	env.mu.Unlock()
	require.NoError(t, ops.Craft(ctx, "planks"))

	ws, err = env.SensorFor("tester").Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ws.GetNumber(roles.KeyExploredTrip))
}

func TestStepAgesDropsOut(t *testing.T) {
	env := newTestEnv(t)

	env.mu.Lock()
	env.spawnDrop(point{X: 1, Y: 1}, "seed")
	env.mu.Unlock()

	for i := 0; i < dropLifetime; i++ {
		env.Step()
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	assert.Empty(t, env.drops, "unclaimed drops despawn")
	assert.Equal(t, uint64(dropLifetime), env.tick)
}
