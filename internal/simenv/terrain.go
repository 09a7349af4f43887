// Package simenv provides a small in-process block world so a bot herd can
// run end-to-end without a game server. Terrain comes from layered simplex
// noise; the rest is a deliberately toy model — crops grow, drops despawn,
// trees fall — just enough surface for every role's action set.
package simenv

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Size     int     // Square world edge length in tiles
	Seed     int64   // Noise seed
	TreeLine float64 // Forest density threshold (0.0–1.0)
	OreLine  float64 // Ore vein threshold (0.0–1.0)
}

// DefaultGenConfig returns a world big enough for a handful of bots.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:     48,
		Seed:     1,
		TreeLine: 0.62,
		OreLine:  0.70,
	}
}

// Tile is one surface column of the world.
type Tile struct {
	Fertility float64 // Drives tillability and crop growth speed
	Trees     int     // Standing trees on this tile
	Ore       int     // Ore exposed below this tile
	Tillable  bool    // Can be turned into farmland with a hoe
	Farmland  bool    // Already tilled
}

// Terrain is the immutable-after-generation tile grid.
type Terrain struct {
	Size  int
	tiles []Tile
}

// At returns a pointer to the tile at (x, y), or nil outside the grid.
func (t *Terrain) At(x, y int) *Tile {
	if x < 0 || y < 0 || x >= t.Size || y >= t.Size {
		return nil
	}
	return &t.tiles[y*t.Size+x]
}

// Generate builds a terrain grid from layered noise: one field for soil
// fertility, one for forest cover, one for ore veins.
func Generate(cfg GenConfig) *Terrain {
	if cfg.Size <= 0 {
		cfg.Size = DefaultGenConfig().Size
	}

	soilNoise := opensimplex.NewNormalized(cfg.Seed)
	treeNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	oreNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	t := &Terrain{
		Size:  cfg.Size,
		tiles: make([]Tile, cfg.Size*cfg.Size),
	}

	for y := 0; y < cfg.Size; y++ {
		for x := 0; x < cfg.Size; x++ {
			fx, fy := float64(x), float64(y)

			fertility := octaveNoise(soilNoise, fx, fy, 3, 0.07, 0.5)
			forest := octaveNoise(treeNoise, fx, fy, 4, 0.09, 0.5)
			vein := octaveNoise(oreNoise, fx, fy, 2, 0.05, 0.5)

			tile := Tile{Fertility: fertility}
			if forest > cfg.TreeLine {
				tile.Trees = 1 + int((forest-cfg.TreeLine)*10)
			}
			if vein > cfg.OreLine {
				tile.Ore = 1 + int((vein-cfg.OreLine)*20)
			}
			tile.Tillable = tile.Trees == 0 && fertility > 0.55

			*t.At(x, y) = tile
		}
	}

	return t
}

// octaveNoise layers several noise samples for natural-looking variation.
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}

	return total / maxValue
}

// countNearby sums a tile property within radius around (cx, cy).
func (t *Terrain) countNearby(cx, cy, radius int, count func(*Tile) int) int {
	total := 0
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if tile := t.At(x, y); tile != nil {
				total += count(tile)
			}
		}
	}
	return total
}

// dist returns the Chebyshev distance between two points.
func dist(ax, ay, bx, by int) int {
	dx := math.Abs(float64(ax - bx))
	dy := math.Abs(float64(ay - by))
	return int(math.Max(dx, dy))
}
