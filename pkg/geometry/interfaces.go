package geometry

import (
	"github.com/df07/go-raytransport/pkg/core"
)

// Primitive is a single intersectable element an accelerator can bound and test exactly
type Primitive interface {
	// BoundingBox returns a box enclosing the whole primitive
	BoundingBox() core.AABB
	// Intersect returns the nearest hit parameter in [tMin, tMax] and the local surface
	// parameterization (u, v) at that point
	Intersect(ray core.Ray, tMin, tMax float64) (t, u, v float64, ok bool)
	// IDs returns the geometry and primitive identifiers reported on a hit
	IDs() (geomID, primID int)
}

// BoundsOf returns the union of the bounding boxes of prims
func BoundsOf(prims []Primitive) core.AABB {
	if len(prims) == 0 {
		return core.AABB{}
	}
	bounds := prims[0].BoundingBox()
	for _, p := range prims[1:] {
		bounds = bounds.Union(p.BoundingBox())
	}
	return bounds
}
