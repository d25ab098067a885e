package geometry

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center r3.Vector
	Radius float64
	GeomID int
	PrimID int
}

// NewSphere creates a new sphere
func NewSphere(center r3.Vector, radius float64, geomID, primID int) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		GeomID: geomID,
		PrimID: primID,
	}
}

// Intersect tests if a ray intersects with the sphere.
// u is the azimuth around Z in [0, 1), v the polar angle from +Z in [0, 1].
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (float64, float64, float64, bool) {
	oc := ray.Origin.Sub(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return 0, 0, 0, false
		}
	}

	local := ray.At(root).Sub(s.Center).Mul(1 / s.Radius)
	phi := math.Atan2(local.Y, local.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, local.Z)))

	return root, phi / (2 * math.Pi), theta / math.Pi, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Sub(radius), s.Center.Add(radius))
}

// IDs returns the geometry and primitive identifiers
func (s *Sphere) IDs() (int, int) {
	return s.GeomID, s.PrimID
}
