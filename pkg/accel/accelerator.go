// Package accel answers nearest ray-primitive intersection queries against a static primitive set.
//
// Every accelerator is built once and is immutable afterwards, so a single instance can serve any
// number of concurrent Intersect calls without locking.
package accel

import (
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

// Hit identifies and locally parameterizes the nearest intersected primitive
type Hit struct {
	GeomID int
	PrimID int
	U, V   float64
	T      float64
}

// Accelerator is a spatial index over a fixed primitive set
type Accelerator interface {
	// Intersect finds the nearest primitive hit inside [ray.TNear, ray.TFar].
	// On a hit, ray.TFar is shrunk to the hit distance. On a miss the ray is left untouched.
	Intersect(ray *core.Ray) (Hit, bool)
	// Bounds returns the box covered by the structure
	Bounds() core.AABB
	// Stats summarizes the shape of the structure
	Stats() Stats
}

// Options tunes accelerator construction. Zero values select the defaults.
type Options struct {
	MaxLeafSize int
	MaxDepth    int
	Logger      core.Logger
}

func (o Options) logger() core.Logger {
	if o.Logger == nil {
		return core.NopLogger()
	}
	return o.Logger
}

// leafQuery carries the running best hit while testing primitives of a leaf
type leafQuery struct {
	ray   *core.Ray
	hit   Hit
	found bool
}

// test intersects prim exactly and records it if it is closer than the current best
func (q *leafQuery) test(prim geometry.Primitive) {
	t, u, v, ok := prim.Intersect(*q.ray, q.ray.TNear, q.ray.TFar)
	if !ok || (q.found && t >= q.ray.TFar) {
		return
	}
	geomID, primID := prim.IDs()
	q.hit = Hit{GeomID: geomID, PrimID: primID, U: u, V: v, T: t}
	q.found = true
	q.ray.TFar = t
}
