package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func testTerrainParams() TerrainParams {
	return TerrainParams{
		Extent:     1000,
		TileSize:   50,
		Seed:       7,
		Zoom:       1,
		OpenLow:    0,
		OpenHigh:   0.3,
		SafeCenter: r2.Vec{X: 500, Y: 500},
		SafeRadius: 150,
	}
}

func TestGenerateTerrainDeterministic(t *testing.T) {
	a := GenerateTerrain(testTerrainParams())
	b := GenerateTerrain(testTerrainParams())

	if a.Tiles() != 20 {
		t.Fatalf("tiles = %d, want 20", a.Tiles())
	}
	for j := 0; j < a.Tiles(); j++ {
		for i := 0; i < a.Tiles(); i++ {
			if a.OpenTile(i, j) != b.OpenTile(i, j) {
				t.Fatalf("tile (%d, %d) differs between runs", i, j)
			}
		}
	}
}

func TestGenerateTerrainSafeZone(t *testing.T) {
	p := testTerrainParams()
	p.OpenHigh = p.OpenLow // nothing open except the safe zone
	tr := GenerateTerrain(p)

	if !tr.Open(p.SafeCenter) {
		t.Error("safe centre is walled")
	}
	if tr.Open(r2.Vec{X: 25, Y: 25}) {
		t.Error("tile far from the safe zone is open")
	}
	if got, want := len(tr.WallTiles()), tr.Tiles()*tr.Tiles()-int(tr.OpenFraction()*float64(tr.Tiles()*tr.Tiles())+0.5); got != want {
		t.Errorf("wall tiles = %d, want %d", got, want)
	}
}

func TestTerrainLookup(t *testing.T) {
	tr := GenerateTerrain(testTerrainParams())

	if c := tr.TileCenter(0, 0); c != (r2.Vec{X: 25, Y: 25}) {
		t.Errorf("TileCenter(0,0) = %v", c)
	}
	if c := tr.TileCenter(3, 1); c != (r2.Vec{X: 175, Y: 75}) {
		t.Errorf("TileCenter(3,1) = %v", c)
	}

	tests := []struct {
		name string
		i, j int
	}{
		{"negative", -1, 0},
		{"past end", 0, tr.Tiles()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tr.OpenTile(tc.i, tc.j) {
				t.Errorf("out-of-range tile (%d, %d) reported open", tc.i, tc.j)
			}
		})
	}

	for j := 0; j < tr.Tiles(); j++ {
		for i := 0; i < tr.Tiles(); i++ {
			if tr.Open(tr.TileCenter(i, j)) != tr.OpenTile(i, j) {
				t.Fatalf("Open and OpenTile disagree at (%d, %d)", i, j)
			}
		}
	}
}
