package accel

import (
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

// Linear tests every primitive for every ray. It is the reference the other accelerators are
// checked against.
type Linear struct {
	prims  []geometry.Primitive
	bounds core.AABB
}

// NewLinear wraps prims in a brute-force accelerator
func NewLinear(prims []geometry.Primitive) *Linear {
	return &Linear{prims: prims, bounds: geometry.BoundsOf(prims)}
}

// Intersect scans all primitives and keeps the nearest hit
func (l *Linear) Intersect(ray *core.Ray) (Hit, bool) {
	work := *ray
	q := leafQuery{ray: &work}
	for _, prim := range l.prims {
		q.test(prim)
	}
	if q.found {
		ray.TFar = work.TFar
	}
	return q.hit, q.found
}

// Bounds returns the union of all primitive bounds
func (l *Linear) Bounds() core.AABB {
	return l.bounds
}

// Stats reports the whole set as a single leaf
func (l *Linear) Stats() Stats {
	return Stats{
		TotalNodes:    1,
		LeafNodes:     1,
		Primitives:    len(l.prims),
		PrimitiveRefs: len(l.prims),
	}
}
