package geometry

import (
	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 r3.Vector // The three vertices
	GeomID     int       // Owning geometry
	PrimID     int       // Index within the owning geometry
	normal     r3.Vector // Cached normal vector
	bbox       core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 r3.Vector, geomID, primID int) *Triangle {
	t := &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		GeomID: geomID,
		PrimID: primID,
	}

	t.normal = v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)

	return t
}

// Intersect tests the ray against the triangle with the Möller-Trumbore algorithm.
// u and v are the barycentric weights of V1 and V2.
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (float64, float64, float64, bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Sub(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return 0, 0, 0, false
	}

	return tHit, u, v, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// IDs returns the geometry and primitive identifiers
func (t *Triangle) IDs() (int, int) {
	return t.GeomID, t.PrimID
}

// Normal returns the triangle's geometric normal
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}
