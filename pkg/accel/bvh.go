package accel

import (
	"time"

	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const bvhLeafThreshold = 8

// BVHNode is one node of the BVH arena.
// Interior nodes reference two children; leaves own the range [Start, Start+Count) of the
// ordered primitive index list.
type BVHNode struct {
	Bounds      core.AABB
	Left, Right int32
	Start       int
	Count       int
	Depth       int
}

// IsLeaf reports whether the node stores primitives directly
func (n *BVHNode) IsLeaf() bool {
	return n.Count > 0 || n.Left == noChild
}

// BVH is a bounding volume hierarchy stored as an arena; the root is node 0
type BVH struct {
	nodes   []BVHNode
	prims   []geometry.Primitive
	order   []int
	bounds  []core.AABB
	leafMax int
}

// BuildBVH constructs a BVH over prims using midpoint splits along the longest axis
func BuildBVH(prims []geometry.Primitive, opts Options) *BVH {
	start := time.Now()

	b := &BVH{
		prims:   prims,
		order:   make([]int, len(prims)),
		bounds:  make([]core.AABB, len(prims)),
		leafMax: opts.MaxLeafSize,
	}
	if b.leafMax <= 0 {
		b.leafMax = bvhLeafThreshold
	}
	for i, prim := range prims {
		b.order[i] = i
		b.bounds[i] = prim.BoundingBox()
	}

	if len(prims) > 0 {
		b.build(0, len(prims), 0)
	}

	stats := b.Stats()
	opts.logger().Debugf("bvh built in %v: %d nodes, %d leaves, depth %d",
		time.Since(start), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth)

	return b
}

// build creates the node for order[lo:hi] and returns its arena index
func (b *BVH) build(lo, hi, depth int) int32 {
	bounds := b.bounds[b.order[lo]]
	for _, idx := range b.order[lo+1 : hi] {
		bounds = bounds.Union(b.bounds[idx])
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, BVHNode{Bounds: bounds, Left: noChild, Right: noChild, Depth: depth})

	// Base case: few primitives - create leaf node with all of them
	if hi-lo <= b.leafMax {
		b.nodes[nodeIndex].Start, b.nodes[nodeIndex].Count = lo, hi-lo
		return nodeIndex
	}

	mid, ok := b.partition(lo, hi, bounds)
	// Ensure we don't create empty partitions
	if !ok {
		b.nodes[nodeIndex].Start, b.nodes[nodeIndex].Count = lo, hi-lo
		return nodeIndex
	}

	left := b.build(lo, mid, depth+1)
	right := b.build(mid, hi, depth+1)
	b.nodes[nodeIndex].Left = left
	b.nodes[nodeIndex].Right = right
	return nodeIndex
}

// partition splits order[lo:hi] by centroid around the midpoint of the longest axis
func (b *BVH) partition(lo, hi int, bounds core.AABB) (int, bool) {
	axis := bounds.LongestAxis()
	minVal := core.Axis(bounds.Min, axis)
	maxVal := core.Axis(bounds.Max, axis)

	// Skip if no extent along this axis
	if maxVal <= minVal {
		return 0, false
	}
	splitPos := (minVal + maxVal) * 0.5

	mid := lo
	for i := lo; i < hi; i++ {
		if core.Axis(b.bounds[b.order[i]].Center(), axis) < splitPos {
			b.order[i], b.order[mid] = b.order[mid], b.order[i]
			mid++
		}
	}

	if mid == lo || mid == hi {
		return 0, false
	}
	return mid, true
}

// Intersect finds the nearest hit, descending into the nearer child first
func (b *BVH) Intersect(ray *core.Ray) (Hit, bool) {
	if len(b.nodes) == 0 {
		return Hit{}, false
	}

	work := *ray
	q := leafQuery{ray: &work}
	b.intersectNode(0, &q)
	if q.found {
		ray.TFar = work.TFar
	}
	return q.hit, q.found
}

func (b *BVH) intersectNode(nodeIndex int32, q *leafQuery) {
	node := &b.nodes[nodeIndex]
	if !node.Bounds.Hit(*q.ray, q.ray.TNear, q.ray.TFar) {
		return
	}

	if node.IsLeaf() {
		for _, idx := range b.order[node.Start : node.Start+node.Count] {
			q.test(b.prims[idx])
		}
		return
	}

	first, second := node.Left, node.Right
	leftEntry, _, leftOK := b.nodes[first].Bounds.Interval(*q.ray, q.ray.TNear, q.ray.TFar)
	rightEntry, _, rightOK := b.nodes[second].Bounds.Interval(*q.ray, q.ray.TNear, q.ray.TFar)
	if leftOK && rightOK && rightEntry < leftEntry {
		first, second = second, first
	}
	if leftOK || rightOK {
		b.intersectNode(first, q)
		b.intersectNode(second, q)
	}
}

// Bounds returns the root box
func (b *BVH) Bounds() core.AABB {
	if len(b.nodes) == 0 {
		return core.AABB{}
	}
	return b.nodes[0].Bounds
}

// Stats walks the arena and summarizes it
func (b *BVH) Stats() Stats {
	stats := Stats{Primitives: len(b.prims)}
	for i := range b.nodes {
		node := &b.nodes[i]
		stats.visit(node.Depth)
		if node.IsLeaf() {
			stats.addLeaf(node.Depth, node.Count)
		}
	}
	stats.finish()
	return stats
}
