package geometry

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner r3.Vector // One corner of the quad
	U      r3.Vector // First edge vector
	V      r3.Vector // Second edge vector
	Normal r3.Vector // Normal vector (computed from U × V)
	D      float64   // Plane equation constant: n·p = D
	W      r3.Vector // Cached n / (n·(U×V)) for planar coordinates
	GeomID int
	PrimID int
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v r3.Vector, geomID, primID int) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		Normal: normal,
		D:      normal.Dot(corner),
		W:      normal.Mul(1.0 / normal.Dot(cross)),
		GeomID: geomID,
		PrimID: primID,
	}
}

// Intersect tests if a ray intersects with the quad.
// u and v are the hit point's coordinates along the U and V edges, both in [0, 1].
func (q *Quad) Intersect(ray core.Ray, tMin, tMax float64) (float64, float64, float64, bool) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-12 {
		return 0, 0, 0, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return 0, 0, 0, false
	}

	hitVector := ray.At(t).Sub(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, 0, 0, false
	}

	return t, alpha, beta, true
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	)
}

// IDs returns the geometry and primitive identifiers
func (q *Quad) IDs() (int, int) {
	return q.GeomID, q.PrimID
}
