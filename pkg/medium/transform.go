package medium

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// TransformConfig is the decoded form of a "transform" attribute.
// Every part is optional; the canonical cube is [-1, 1]^3 before the transform is applied.
type TransformConfig struct {
	Translate *r3.Vector      `json:"translate"`
	Rotate    *RotationConfig `json:"rotate"`
	Scale     *r3.Vector      `json:"scale"`
}

// RotationConfig is an axis-angle rotation, angle in degrees.
type RotationConfig struct {
	Axis  r3.Vector `json:"axis"`
	Angle float64   `json:"angle"`
}

// Transform places the canonical cube [-1, 1]^3 in the world as translate · rotate · scale.
type Transform struct {
	forward mgl64.Mat4
	inverse mgl64.Mat4
}

// IdentityTransform leaves the canonical cube where it is.
func IdentityTransform() Transform {
	return Transform{forward: mgl64.Ident4(), inverse: mgl64.Ident4()}
}

// NewTransform composes a transform from its parts.
func NewTransform(translate, axis r3.Vector, angleDegrees float64, scale r3.Vector) (Transform, error) {
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return Transform{}, errors.Errorf("scale must be non-zero on every axis, got %v", scale)
	}

	rotation, inverseRotation := mgl64.Ident4(), mgl64.Ident4()
	if angleDegrees != 0 {
		if axis.Norm2() == 0 {
			return Transform{}, errors.New("rotation axis must be non-zero")
		}
		n := axis.Normalize()
		radians := mgl64.DegToRad(angleDegrees)
		rotation = mgl64.HomogRotate3D(radians, mgl64.Vec3{n.X, n.Y, n.Z})
		inverseRotation = mgl64.HomogRotate3D(-radians, mgl64.Vec3{n.X, n.Y, n.Z})
	}

	forward := mgl64.Translate3D(translate.X, translate.Y, translate.Z).
		Mul4(rotation).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
	inverse := mgl64.Scale3D(1/scale.X, 1/scale.Y, 1/scale.Z).
		Mul4(inverseRotation).
		Mul4(mgl64.Translate3D(-translate.X, -translate.Y, -translate.Z))

	return Transform{forward: forward, inverse: inverse}, nil
}

// Build turns the config into a Transform; a nil config is the identity.
func (c *TransformConfig) Build() (Transform, error) {
	if c == nil {
		return IdentityTransform(), nil
	}
	translate := r3.Vector{}
	if c.Translate != nil {
		translate = *c.Translate
	}
	scale := r3.Vector{X: 1, Y: 1, Z: 1}
	if c.Scale != nil {
		scale = *c.Scale
	}
	var axis r3.Vector
	var angle float64
	if c.Rotate != nil {
		axis, angle = c.Rotate.Axis, c.Rotate.Angle
	}
	return NewTransform(translate, axis, angle, scale)
}

// Apply maps a point from the canonical cube to the world.
func (t Transform) Apply(p r3.Vector) r3.Vector {
	return transformPoint(t.forward, p)
}

// ApplyInverse maps a world point into the canonical cube.
func (t Transform) ApplyInverse(p r3.Vector) r3.Vector {
	return transformPoint(t.inverse, p)
}

// ToLocal maps a world ray into the unit cube [0, 1]^3 so that origin + t·dir in the world
// corresponds to localOrigin + t·localDir for every t.
func (t Transform) ToLocal(origin, dir r3.Vector) (r3.Vector, r3.Vector) {
	o := transformPoint(t.inverse, origin)
	d := t.inverse.Mat3().Mul3x1(mgl64.Vec3{dir.X, dir.Y, dir.Z})

	localOrigin := r3.Vector{X: (o.X + 1) * 0.5, Y: (o.Y + 1) * 0.5, Z: (o.Z + 1) * 0.5}
	localDir := r3.Vector{X: d[0] * 0.5, Y: d[1] * 0.5, Z: d[2] * 0.5}
	return localOrigin, localDir
}

func transformPoint(m mgl64.Mat4, p r3.Vector) r3.Vector {
	h := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: h[0] / h[3], Y: h[1] / h[3], Z: h[2] / h[3]}
}
