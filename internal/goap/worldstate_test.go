package goap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorldStateDefaults(t *testing.T) {
	ws := NewWorldState()

	assert.Equal(t, 0.0, ws.GetNumber("nearby.drops"), "absent number defaults to 0")
	assert.False(t, ws.GetBool("has.hoe"), "absent bool defaults to false")
	assert.Equal(t, "", ws.GetString("state.activity"), "absent string defaults to empty")
	assert.False(t, ws.Has("anything"))
}

func TestWorldStateCoercion(t *testing.T) {
	ws := NewWorldState()

	ws.Set("inv.logs", 3)
	ws.Set("inv.planks", int64(4))
	ws.Set("inv.sticks", int32(6))
	ws.Set("inv.seeds", uint(7))
	ws.Set("state.tick", uint64(900))
	ws.Set("state.health", float32(19.5))
	ws.Set("has.axe", true)
	ws.Set("state.activity", "mining")

	assert.Equal(t, 3.0, ws.GetNumber("inv.logs"))
	assert.Equal(t, 4.0, ws.GetNumber("inv.planks"))
	assert.Equal(t, 6.0, ws.GetNumber("inv.sticks"))
	assert.Equal(t, 7.0, ws.GetNumber("inv.seeds"))
	assert.Equal(t, 900.0, ws.GetNumber("state.tick"))
	assert.InDelta(t, 19.5, ws.GetNumber("state.health"), 1e-6)
	assert.True(t, ws.GetBool("has.axe"))
	assert.Equal(t, "mining", ws.GetString("state.activity"))
}

func TestWorldStateUnsupportedTypesStringified(t *testing.T) {
	ws := NewWorldState()

	ws.Set("state.pos", struct{ X, Y int }{3, 4})
	ws.Set("state.tags", []string{"wet", "dark"})

	assert.Equal(t, "{3 4}", ws.GetString("state.pos"))
	assert.Equal(t, "[wet dark]", ws.GetString("state.tags"))
}

func TestWorldStateTypeMismatchIsSafe(t *testing.T) {
	ws := NewWorldState()
	ws.Set("inv.logs", 3)

	// Reading a number through the wrong accessor yields the safe default,
	// never a panic.
	assert.False(t, ws.GetBool("inv.logs"))
	assert.Equal(t, "", ws.GetString("inv.logs"))
}

func TestWorldStateCloneIsIndependent(t *testing.T) {
	ws := NewWorldState()
	ws.Set("inv.logs", 2)
	ws.Set("has.hoe", false)

	proj := ws.Clone()
	proj.Set("inv.logs", 0)
	proj.Set("has.hoe", true)

	assert.Equal(t, 2.0, ws.GetNumber("inv.logs"), "live snapshot untouched by projection")
	assert.False(t, ws.GetBool("has.hoe"))
	assert.Equal(t, 0.0, proj.GetNumber("inv.logs"))
	assert.True(t, proj.GetBool("has.hoe"))
}

func TestConditionConstructors(t *testing.T) {
	ws := NewWorldState()
	ws.Set("inv.planks", 4)
	ws.Set("state.depth", 12)
	ws.Set("has.pickaxe", true)
	ws.Set("state.activity", "idle")

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"at least met", NumAtLeast("inv.planks", 2), true},
		{"at least boundary", NumAtLeast("inv.planks", 4), true},
		{"at least unmet", NumAtLeast("inv.planks", 5), false},
		{"below met", NumBelow("state.depth", 20), true},
		{"below unmet", NumBelow("state.depth", 12), false},
		{"flag set", FlagSet("has.pickaxe"), true},
		{"flag clear on set flag", FlagClear("has.pickaxe"), false},
		{"flag clear on absent", FlagClear("has.shears"), true},
		{"string match", StringIs("state.activity", "idle"), true},
		{"string mismatch", StringIs("state.activity", "mining"), false},
		{"absent key numeric", NumAtLeast("inv.wheat", 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Holds(ws))
		})
	}
}
