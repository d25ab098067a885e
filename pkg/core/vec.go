package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec2 represents a pair of values, used for 2D sample points
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// NewVec3 creates a new r3.Vector
func NewVec3(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Axis returns the component of v along the given axis (0=X, 1=Y, 2=Z)
func Axis(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// MinVec returns the component-wise minimum of two vectors
func MinVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxVec returns the component-wise maximum of two vectors
func MaxVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// SphericalDirection builds a unit direction from spherical angles in the frame (x, y, z)
func SphericalDirection(sinTheta, cosTheta, phi float64, x, y, z r3.Vector) r3.Vector {
	return x.Mul(sinTheta * math.Cos(phi)).
		Add(y.Mul(sinTheta * math.Sin(phi))).
		Add(z.Mul(cosTheta))
}

// CoordinateSystem returns two unit vectors that complete an orthonormal basis around v.
// v must be normalized.
func CoordinateSystem(v r3.Vector) (r3.Vector, r3.Vector) {
	tangent := v.Ortho()
	bitangent := v.Cross(tangent).Normalize()
	return tangent, bitangent
}
