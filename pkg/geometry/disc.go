package geometry

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/core"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center r3.Vector // Center of the disc
	Normal r3.Vector // Normal vector (pointing "up" from the disc)
	Radius float64   // Radius of the disc
	Right  r3.Vector // Right vector (perpendicular to normal)
	Up     r3.Vector // Up vector (perpendicular to normal and right)
	GeomID int
	PrimID int
}

// NewDisc creates a new disc
func NewDisc(center, normal r3.Vector, radius float64, geomID, primID int) *Disc {
	normalNormalized := normal.Normalize()

	// Create orthogonal vectors
	var right r3.Vector
	if math.Abs(normalNormalized.X) > 0.1 {
		right = core.NewVec3(0, 1, 0)
	} else {
		right = core.NewVec3(1, 0, 0)
	}

	right = right.Cross(normalNormalized).Normalize()
	up := normalNormalized.Cross(right).Normalize()

	return &Disc{
		Center: center,
		Normal: normalNormalized,
		Radius: radius,
		Right:  right,
		Up:     up,
		GeomID: geomID,
		PrimID: primID,
	}
}

// Intersect tests if a ray intersects with the disc.
// u is the distance from the center as a fraction of the radius, v the angle from Right in [0, 1).
func (d *Disc) Intersect(ray core.Ray, tMin, tMax float64) (float64, float64, float64, bool) {
	// Check if ray intersects the plane containing the disc
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return 0, 0, 0, false // Ray is parallel to disc
	}

	t := d.Normal.Dot(d.Center.Sub(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return 0, 0, 0, false
	}

	// Check if intersection point is within disc radius
	centerToHit := ray.At(t).Sub(d.Center)
	distanceSquared := centerToHit.Norm2()
	if distanceSquared > d.Radius*d.Radius {
		return 0, 0, 0, false
	}

	phi := math.Atan2(centerToHit.Dot(d.Up), centerToHit.Dot(d.Right))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return t, math.Sqrt(distanceSquared) / d.Radius, phi / (2 * math.Pi), true
}

// BoundingBox returns a box around the four extreme points of the disc in its own plane
func (d *Disc) BoundingBox() core.AABB {
	rightExtent := d.Right.Mul(d.Radius)
	upExtent := d.Up.Mul(d.Radius)

	return core.NewAABBFromPoints(
		d.Center.Add(rightExtent).Add(upExtent),
		d.Center.Add(rightExtent).Sub(upExtent),
		d.Center.Sub(rightExtent).Add(upExtent),
		d.Center.Sub(rightExtent).Sub(upExtent),
	)
}

// IDs returns the geometry and primitive identifiers
func (d *Disc) IDs() (int, int) {
	return d.GeomID, d.PrimID
}
