package spatial

import "gonum.org/v1/gonum/spatial/r2"

// Capacity is the number of entries a node holds before it subdivides.
const Capacity = 4

// Child quadrant order. Children are always created together and tried in
// this order, so a point on a shared edge lands in the first match.
const (
	NE = iota
	NW
	SE
	SW
)

const noChild = -1

// MaxDepth bounds subdivision. Nodes at this depth keep accepting entries
// past Capacity so that coincident points cannot recurse forever.
const MaxDepth = 24

// Entry is a point and the opaque handle stored with it.
type Entry[H any] struct {
	Pos    r2.Vec
	Handle H
}

type node[H any] struct {
	boundary AABB
	entries  [Capacity]Entry[H]
	count    uint8
	depth    uint8
	children [4]int32
	overflow []Entry[H] // only used at MaxDepth
}

func newNode[H any](boundary AABB, depth uint8) node[H] {
	return node[H]{boundary: boundary, depth: depth, children: [4]int32{noChild, noChild, noChild, noChild}}
}

// Quadtree is a point quadtree whose nodes live in a single arena slice and
// reference their children by index. It has no removal; callers rebuild it
// from scratch whenever the tracked positions change.
type Quadtree[H any] struct {
	nodes    []node[H]
	boundary AABB
	size     int
}

// New creates an empty tree covering boundary.
func New[H any](boundary AABB) *Quadtree[H] {
	t := &Quadtree[H]{boundary: boundary, nodes: make([]node[H], 0, 64)}
	t.Reset()
	return t
}

// Reset empties the tree, keeping the arena's capacity.
func (t *Quadtree[H]) Reset() {
	t.nodes = append(t.nodes[:0], newNode[H](t.boundary, 1))
	t.size = 0
}

// Rebuild resets the tree and inserts every entry. It returns how many
// entries were dropped for lying outside the root boundary.
func (t *Quadtree[H]) Rebuild(entries []Entry[H]) int {
	t.Reset()
	dropped := 0
	for _, e := range entries {
		if !t.Insert(e.Pos, e.Handle) {
			dropped++
		}
	}
	return dropped
}

// Insert adds a point. It returns false, leaving the tree untouched, when
// p lies outside the root boundary.
func (t *Quadtree[H]) Insert(p r2.Vec, h H) bool {
	if !t.insert(0, Entry[H]{Pos: p, Handle: h}) {
		return false
	}
	t.size++
	return true
}

func (t *Quadtree[H]) insert(idx int32, e Entry[H]) bool {
	n := &t.nodes[idx]
	if !n.boundary.ContainsPoint(e.Pos) {
		return false
	}
	if int(n.count) < Capacity && n.children[0] == noChild {
		n.entries[n.count] = e
		n.count++
		return true
	}
	if n.depth >= MaxDepth {
		n.overflow = append(n.overflow, e)
		return true
	}
	if n.children[0] == noChild {
		t.subdivide(idx)
	}
	// subdivide may have grown the arena; re-read the children by index.
	children := t.nodes[idx].children
	for _, c := range children {
		if t.insert(c, e) {
			return true
		}
	}
	return false
}

func (t *Quadtree[H]) subdivide(idx int32) {
	boundary, depth := t.nodes[idx].boundary, t.nodes[idx].depth
	first := int32(len(t.nodes))
	for q := NE; q <= SW; q++ {
		t.nodes = append(t.nodes, newNode[H](boundary.quadrant(q), depth+1))
	}
	for q := range 4 {
		t.nodes[idx].children[q] = first + int32(q)
	}
}

// QueryRange returns the handles of all entries inside region.
func (t *Quadtree[H]) QueryRange(region AABB) []H {
	return t.QueryRangeInto(nil, region)
}

// QueryRangeInto appends the handles of all entries inside region to dst.
// Reuse dst across calls to avoid allocations.
func (t *Quadtree[H]) QueryRangeInto(dst []H, region AABB) []H {
	return t.query(0, region, dst)
}

func (t *Quadtree[H]) query(idx int32, region AABB, dst []H) []H {
	n := &t.nodes[idx]
	if !n.boundary.Intersects(region) {
		return dst
	}
	for i := uint8(0); i < n.count; i++ {
		if region.ContainsPoint(n.entries[i].Pos) {
			dst = append(dst, n.entries[i].Handle)
		}
	}
	for _, e := range n.overflow {
		if region.ContainsPoint(e.Pos) {
			dst = append(dst, e.Handle)
		}
	}
	if n.children[0] == noChild {
		return dst
	}
	for _, c := range n.children {
		dst = t.query(c, region, dst)
	}
	return dst
}

// Boundary returns the root boundary.
func (t *Quadtree[H]) Boundary() AABB { return t.boundary }

// Len returns the number of stored entries.
func (t *Quadtree[H]) Len() int { return t.size }

// NodeCount returns the number of allocated nodes, root included.
func (t *Quadtree[H]) NodeCount() int { return len(t.nodes) }

// Depth returns the number of levels in the tree. An unsplit root has depth 1.
func (t *Quadtree[H]) Depth() int { return t.depth(0) }

func (t *Quadtree[H]) depth(idx int32) int {
	n := &t.nodes[idx]
	if n.children[0] == noChild {
		return 1
	}
	deepest := 0
	for _, c := range n.children {
		deepest = max(deepest, t.depth(c))
	}
	return deepest + 1
}

// Walk calls fn for every node boundary in arena order with the number of
// entries it holds. Used for debug overlays and tests.
func (t *Quadtree[H]) Walk(fn func(boundary AABB, entries int)) {
	for i := range t.nodes {
		fn(t.nodes[i].boundary, int(t.nodes[i].count)+len(t.nodes[i].overflow))
	}
}
