package accel

import (
	"time"

	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

const (
	// DefaultOctreeLeafSize is the primitive count at or below which a node becomes a leaf
	DefaultOctreeLeafSize = 24
	// DefaultOctreeMaxDepth bounds the recursion depth of the build
	DefaultOctreeMaxDepth = 10

	noChild int32 = -1
)

// OctreeNode is one node of the octree arena.
// Children holds arena indices, noChild marks an empty octant. Leaves hold primitive indices.
type OctreeNode struct {
	Bounds   core.AABB
	Children [8]int32
	Prims    []int
	Depth    int
	Leaf     bool
}

// Octree is an 8-ary spatial subdivision stored as an arena of nodes; the root is node 0.
//
// A primitive whose bounds straddle a split plane is stored in every child it overlaps.
// Leaves may therefore share primitives, and traversal tolerates seeing one twice.
type Octree struct {
	nodes       []OctreeNode
	prims       []geometry.Primitive
	primBounds  []core.AABB
	bounds      core.AABB
	maxLeafSize int
	maxDepth    int
}

// BuildOctree partitions prims into an octree covering sceneBounds.
// The root box is grown to enclose every primitive so none can fall outside the tree.
func BuildOctree(sceneBounds core.AABB, prims []geometry.Primitive, opts Options) *Octree {
	start := time.Now()

	o := &Octree{
		prims:       prims,
		primBounds:  make([]core.AABB, len(prims)),
		bounds:      sceneBounds,
		maxLeafSize: opts.MaxLeafSize,
		maxDepth:    opts.MaxDepth,
	}
	if o.maxLeafSize <= 0 {
		o.maxLeafSize = DefaultOctreeLeafSize
	}
	if o.maxDepth <= 0 {
		o.maxDepth = DefaultOctreeMaxDepth
	}

	indices := make([]int, len(prims))
	for i, prim := range prims {
		o.primBounds[i] = prim.BoundingBox()
		o.bounds = o.bounds.Union(o.primBounds[i])
		indices[i] = i
	}

	o.build(o.bounds, indices, 0)

	stats := o.Stats()
	opts.logger().Debugf("octree built in %v: %d nodes, %d leaves, depth %d, duplication %.2f",
		time.Since(start), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth, stats.Duplication())

	return o
}

// build appends the node for indices inside bounds and returns its arena index
func (o *Octree) build(bounds core.AABB, indices []int, depth int) int32 {
	nodeIndex := int32(len(o.nodes))
	o.nodes = append(o.nodes, OctreeNode{
		Bounds:   bounds,
		Children: [8]int32{noChild, noChild, noChild, noChild, noChild, noChild, noChild, noChild},
		Depth:    depth,
	})

	if len(indices) <= o.maxLeafSize || depth >= o.maxDepth {
		o.makeLeaf(nodeIndex, indices)
		return nodeIndex
	}

	var buckets [8][]int
	progress := false
	for i := range buckets {
		child := bounds.Octant(i)
		for _, idx := range indices {
			if o.primBounds[idx].Overlaps(child) {
				buckets[i] = append(buckets[i], idx)
			}
		}
		if len(buckets[i]) > 0 && len(buckets[i]) < len(indices) {
			progress = true
		}
	}

	// Every occupied octant would receive the full set; splitting further only duplicates
	if !progress {
		o.makeLeaf(nodeIndex, indices)
		return nodeIndex
	}

	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		// build appends to o.nodes, so write through the index after the call returns
		child := o.build(bounds.Octant(i), bucket, depth+1)
		o.nodes[nodeIndex].Children[i] = child
	}

	return nodeIndex
}

func (o *Octree) makeLeaf(nodeIndex int32, indices []int) {
	o.nodes[nodeIndex].Leaf = true
	o.nodes[nodeIndex].Prims = indices
}

// Intersect finds the nearest primitive hit by branch-and-bound traversal, visiting children
// nearest-entry first and pruning every subtree that starts beyond the current best hit.
func (o *Octree) Intersect(ray *core.Ray) (Hit, bool) {
	if len(o.prims) == 0 {
		return Hit{}, false
	}

	work := *ray
	if _, _, ok := o.nodes[0].Bounds.Interval(work, work.TNear, work.TFar); !ok {
		return Hit{}, false
	}

	q := leafQuery{ray: &work}
	o.intersectNode(0, &q)
	if q.found {
		ray.TFar = work.TFar
	}
	return q.hit, q.found
}

// childEntry is a child node and the parameter at which the ray enters it
type childEntry struct {
	node  int32
	entry float64
}

func (o *Octree) intersectNode(nodeIndex int32, q *leafQuery) {
	node := &o.nodes[nodeIndex]

	if node.Leaf {
		for _, idx := range node.Prims {
			q.test(o.prims[idx])
		}
		return
	}

	var order [8]childEntry
	count := 0
	for _, child := range node.Children {
		if child == noChild {
			continue
		}
		entry, _, ok := o.nodes[child].Bounds.Interval(*q.ray, q.ray.TNear, q.ray.TFar)
		if !ok {
			continue
		}
		// Insertion sort by entry distance
		j := count
		for j > 0 && order[j-1].entry > entry {
			order[j] = order[j-1]
			j--
		}
		order[j] = childEntry{node: child, entry: entry}
		count++
	}

	for _, c := range order[:count] {
		// Sorted by entry, so every remaining child starts beyond the best hit too
		if c.entry > q.ray.TFar {
			break
		}
		o.intersectNode(c.node, q)
	}
}

// Bounds returns the root box
func (o *Octree) Bounds() core.AABB {
	return o.bounds
}

// Node returns the arena node at index i
func (o *Octree) Node(i int) OctreeNode {
	return o.nodes[i]
}

// NodeCount returns the number of nodes in the arena
func (o *Octree) NodeCount() int {
	return len(o.nodes)
}

// Stats walks the arena and summarizes it
func (o *Octree) Stats() Stats {
	stats := Stats{Primitives: len(o.prims)}
	for i := range o.nodes {
		node := &o.nodes[i]
		stats.visit(node.Depth)
		if node.Leaf {
			stats.addLeaf(node.Depth, len(node.Prims))
		}
	}
	stats.finish()
	return stats
}
