package probe

import (
	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/accel"
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/medium"
)

// Transmittance estimates the channel-averaged transmittance of m along ray over [0, ray.TFar].
// Every sample succeeds.
func Transmittance(m medium.Medium, ray core.Ray) Query {
	return func(_ int, sampler core.Sampler) (float64, bool) {
		return m.Tr(ray.Origin, ray.Direction, ray.TFar, sampler).Average(), true
	}
}

// FreeFlight samples a free-flight distance along ray. A sample succeeds when it scatters and its
// value is the scattering parameter t.
func FreeFlight(m medium.Medium, ray core.Ray) Query {
	return func(_ int, sampler core.Sampler) (float64, bool) {
		it := m.SampleForward(ray, sampler)
		if !it.Scattered {
			return 0, false
		}
		return it.T, true
	}
}

// Intersections shoots rays from a sphere around the accelerator's bounds toward random points
// inside them. A sample succeeds on a hit and its value is the hit distance.
func Intersections(a accel.Accelerator) Query {
	bounds := a.Bounds()
	center := bounds.Center()
	radius := bounds.Size().Norm()
	if radius == 0 {
		radius = 1
	}
	return func(_ int, sampler core.Sampler) (float64, bool) {
		ray := RandomRay(bounds, center, radius, sampler)
		hit, ok := a.Intersect(&ray)
		if !ok {
			return 0, false
		}
		return hit.T, true
	}
}

// RandomRay returns a unit-direction ray starting on the sphere of the given radius about center
// and aimed at a uniformly chosen point of bounds
func RandomRay(bounds core.AABB, center r3.Vector, radius float64, sampler core.Sampler) core.Ray {
	origin := center.Add(core.SampleOnUnitSphere(sampler.Get2D()).Mul(radius))
	size := bounds.Size()
	target := r3.Vector{
		X: bounds.Min.X + size.X*sampler.Get1D(),
		Y: bounds.Min.Y + size.Y*sampler.Get1D(),
		Z: bounds.Min.Z + size.Z*sampler.Get1D(),
	}
	direction := target.Sub(origin)
	if direction.Norm2() == 0 {
		direction = center.Sub(origin)
	}
	return core.NewRay(origin, direction.Normalize())
}
