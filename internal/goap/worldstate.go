// Package goap provides the goal-directed planning and arbitration core:
// a typed world snapshot, declarative goals and actions, a backward-chaining
// planner, and a utility arbiter with anti-thrash goal selection.
package goap

import "fmt"

// ValueKind discriminates the closed set of WorldState value types.
type ValueKind uint8

const (
	KindNumber ValueKind = iota
	KindBool
	KindString
)

// Value is one tagged WorldState entry.
type Value struct {
	Kind ValueKind
	Num  float64
	Bool bool
	Str  string
}

// Number wraps a float64 as a Value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Bool wraps a bool as a Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// String wraps a string as a Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// WorldState is a snapshot of an agent's perceived environment, keyed by
// dot-namespaced strings ("nearby.drops", "has.hoe"). One live instance
// exists per agent, rebuilt every tick by sensing; the planner only ever
// touches clones of it. Keys unknown to any goal or action are legal and
// ignored, which keeps role registries independently extensible.
type WorldState struct {
	values map[string]Value
}

// NewWorldState returns an empty snapshot.
func NewWorldState() *WorldState {
	return &WorldState{values: make(map[string]Value)}
}

// Set stores a value under key, coercing common Go types into the closed
// value set. Unsupported types are stored as their string form.
func (ws *WorldState) Set(key string, v any) {
	switch t := v.(type) {
	case Value:
		ws.values[key] = t
	case float64:
		ws.values[key] = Number(t)
	case float32:
		ws.values[key] = Number(float64(t))
	case int:
		ws.values[key] = Number(float64(t))
	case int32:
		ws.values[key] = Number(float64(t))
	case int64:
		ws.values[key] = Number(float64(t))
	case uint:
		ws.values[key] = Number(float64(t))
	case uint32:
		ws.values[key] = Number(float64(t))
	case uint64:
		ws.values[key] = Number(float64(t))
	case bool:
		ws.values[key] = Bool(t)
	case string:
		ws.values[key] = String(t)
	default:
		ws.values[key] = String(fmt.Sprintf("%v", t))
	}
}

// GetNumber returns the numeric value under key, or 0 when the key is absent
// or holds a non-number. Missing data must never crash evaluation.
func (ws *WorldState) GetNumber(key string) float64 {
	v, ok := ws.values[key]
	if !ok || v.Kind != KindNumber {
		return 0
	}
	return v.Num
}

// GetBool returns the boolean under key, or false when absent or mistyped.
func (ws *WorldState) GetBool(key string) bool {
	v, ok := ws.values[key]
	if !ok || v.Kind != KindBool {
		return false
	}
	return v.Bool
}

// GetString returns the string under key, or "" when absent or mistyped.
func (ws *WorldState) GetString(key string) string {
	v, ok := ws.values[key]
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// Get returns the raw tagged value and whether the key exists.
func (ws *WorldState) Get(key string) (Value, bool) {
	v, ok := ws.values[key]
	return v, ok
}

// Has reports whether key is present.
func (ws *WorldState) Has(key string) bool {
	_, ok := ws.values[key]
	return ok
}

// Clone returns an independent copy for planner projection. Values are
// plain data, so a map copy is a deep copy.
func (ws *WorldState) Clone() *WorldState {
	c := &WorldState{values: make(map[string]Value, len(ws.values))}
	for k, v := range ws.values {
		c.values[k] = v
	}
	return c
}

// Len returns the number of stored keys.
func (ws *WorldState) Len() int { return len(ws.values) }

// Keys returns all stored keys in unspecified order.
func (ws *WorldState) Keys() []string {
	keys := make([]string, 0, len(ws.values))
	for k := range ws.values {
		keys = append(keys, k)
	}
	return keys
}

