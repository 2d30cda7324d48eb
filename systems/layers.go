package systems

import (
	"fmt"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voidswarm/components"
)

// DefaultLayerMatrix returns the collides-with set for each layer, indexed
// by components.Layer.
func DefaultLayerMatrix() [][]components.Layer {
	return [][]components.Layer{
		components.LayerProjectiles: {components.LayerAliens},
		components.LayerShip:        {components.LayerHealthPacks, components.LayerAliens, components.LayerWalls},
		components.LayerAliens:      {components.LayerWalls},
		components.LayerHealthPacks: {},
		components.LayerWalls:       {},
	}
}

type layerEntry struct {
	collidesWith []components.Layer
	members      []ecs.Entity
}

// LayerTable holds the compatibility matrix and the entities assigned to
// each layer. Despawned handles are removed eagerly by Remove; Prune sweeps
// anything that slipped through.
type LayerTable struct {
	layers  []layerEntry
	layerOf map[ecs.Entity]components.Layer
}

// NewLayerTable builds a table from a matrix with exactly one row per layer.
// It panics on any other shape.
func NewLayerTable(matrix [][]components.Layer) *LayerTable {
	if len(matrix) != components.LayerCount {
		panic(fmt.Sprintf("systems: layer matrix has %d rows, want %d", len(matrix), components.LayerCount))
	}
	t := &LayerTable{
		layers:  make([]layerEntry, components.LayerCount),
		layerOf: make(map[ecs.Entity]components.Layer),
	}
	for i, row := range matrix {
		for _, l := range row {
			if int(l) >= components.LayerCount {
				panic(fmt.Sprintf("systems: layer %s collides with unknown layer %d", components.Layer(i), l))
			}
		}
		t.layers[i].collidesWith = slices.Clone(row)
	}
	return t
}

// Assign adds e to layer. Reassigning moves it.
func (t *LayerTable) Assign(e ecs.Entity, layer components.Layer) {
	if old, ok := t.layerOf[e]; ok {
		if old == layer {
			return
		}
		t.removeFrom(old, e)
	}
	t.layers[layer].members = append(t.layers[layer].members, e)
	t.layerOf[e] = layer
}

// Remove drops e from whichever layer holds it.
func (t *LayerTable) Remove(e ecs.Entity) {
	layer, ok := t.layerOf[e]
	if !ok {
		return
	}
	t.removeFrom(layer, e)
	delete(t.layerOf, e)
}

func (t *LayerTable) removeFrom(layer components.Layer, e ecs.Entity) {
	members := t.layers[layer].members
	if i := slices.Index(members, e); i >= 0 {
		t.layers[layer].members = slices.Delete(members, i, i+1)
	}
}

// Prune removes every member for which alive returns false and reports how
// many were removed.
func (t *LayerTable) Prune(alive func(ecs.Entity) bool) int {
	removed := 0
	for i := range t.layers {
		t.layers[i].members = slices.DeleteFunc(t.layers[i].members, func(e ecs.Entity) bool {
			if alive(e) {
				return false
			}
			delete(t.layerOf, e)
			removed++
			return true
		})
	}
	return removed
}

// Members returns the entities assigned to layer. The slice is owned by the table.
func (t *LayerTable) Members(layer components.Layer) []ecs.Entity {
	return t.layers[layer].members
}

// CollidesWith returns the layers that members of layer test against.
func (t *LayerTable) CollidesWith(layer components.Layer) []components.Layer {
	return t.layers[layer].collidesWith
}

// Collides reports whether a member of layer a tests against layer b.
func (t *LayerTable) Collides(a, b components.Layer) bool {
	return slices.Contains(t.layers[a].collidesWith, b)
}

// LayerOf returns the layer e was assigned to.
func (t *LayerTable) LayerOf(e ecs.Entity) (components.Layer, bool) {
	l, ok := t.layerOf[e]
	return l, ok
}

// Len returns the number of assigned entities.
func (t *LayerTable) Len() int { return len(t.layerOf) }
