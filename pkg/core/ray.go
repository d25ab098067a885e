package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// Ray is a half-line restricted to the parametric window [TNear, TFar]
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
	TNear     float64
	TFar      float64
}

// NewRay creates a ray covering [0, +Inf)
func NewRay(origin, direction r3.Vector) Ray {
	return Ray{Origin: origin, Direction: direction, TNear: 0, TFar: math.Inf(1)}
}

// NewRaySegment creates a ray restricted to [tNear, tFar]
func NewRaySegment(origin, direction r3.Vector, tNear, tFar float64) Ray {
	return Ray{Origin: origin, Direction: direction, TNear: tNear, TFar: tFar}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}
