package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// TerrainParams controls wall generation.
type TerrainParams struct {
	Extent     float64 // world size on each axis
	TileSize   float64
	Seed       int64
	Zoom       float64 // radius of the sampling torus in noise space
	OpenLow    float64 // noise values strictly between OpenLow and OpenHigh are open
	OpenHigh   float64
	SafeCenter r2.Vec  // always open around this point
	SafeRadius float64
}

// Terrain is a square grid of open and solid tiles. It tiles seamlessly
// because the noise is sampled on a 4-D torus.
type Terrain struct {
	tiles    int
	tileSize float64
	open     []bool
}

// GenerateTerrain samples OpenSimplex noise for every tile.
func GenerateTerrain(p TerrainParams) *Terrain {
	n := int(p.Extent / p.TileSize)
	t := &Terrain{tiles: n, tileSize: p.TileSize, open: make([]bool, n*n)}
	noise := opensimplex.New(p.Seed)

	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			u := float64(i) / float64(n) * 2 * math.Pi
			v := float64(j) / float64(n) * 2 * math.Pi
			val := noise.Eval4(
				p.Zoom*math.Cos(u), p.Zoom*math.Sin(u),
				p.Zoom*math.Cos(v), p.Zoom*math.Sin(v),
			)
			open := val > p.OpenLow && val < p.OpenHigh
			if !open && p.SafeRadius > 0 && r2.Norm(r2.Sub(t.TileCenter(i, j), p.SafeCenter)) < p.SafeRadius {
				open = true
			}
			t.open[j*n+i] = open
		}
	}
	return t
}

// Tiles returns the number of tiles per axis.
func (t *Terrain) Tiles() int { return t.tiles }

// TileSize returns the edge length of one tile.
func (t *Terrain) TileSize() float64 { return t.tileSize }

// TileCenter returns the world position of tile (i, j).
func (t *Terrain) TileCenter(i, j int) r2.Vec {
	return r2.Vec{X: (float64(i) + 0.5) * t.tileSize, Y: (float64(j) + 0.5) * t.tileSize}
}

// OpenTile reports whether tile (i, j) is free of walls. Out-of-range tiles are solid.
func (t *Terrain) OpenTile(i, j int) bool {
	if i < 0 || j < 0 || i >= t.tiles || j >= t.tiles {
		return false
	}
	return t.open[j*t.tiles+i]
}

// Open reports whether the world position p lies on an open tile.
func (t *Terrain) Open(p r2.Vec) bool {
	return t.OpenTile(int(math.Floor(p.X/t.tileSize)), int(math.Floor(p.Y/t.tileSize)))
}

// WallTiles returns the centres of every solid tile in row-major order.
func (t *Terrain) WallTiles() []r2.Vec {
	var walls []r2.Vec
	for j := 0; j < t.tiles; j++ {
		for i := 0; i < t.tiles; i++ {
			if !t.open[j*t.tiles+i] {
				walls = append(walls, t.TileCenter(i, j))
			}
		}
	}
	return walls
}

// OpenFraction returns the share of tiles that are open.
func (t *Terrain) OpenFraction() float64 {
	if len(t.open) == 0 {
		return 0
	}
	n := 0
	for _, o := range t.open {
		if o {
			n++
		}
	}
	return float64(n) / float64(len(t.open))
}
