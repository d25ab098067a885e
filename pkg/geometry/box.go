package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/core"
)

// Box represents a rectangular box made up of 6 quads with optional rotation
type Box struct {
	Center   r3.Vector // Center point of the box
	Size     r3.Vector // Half-extents along each axis
	Rotation r3.Vector // Rotation angles in radians (X, Y, Z)
	GeomID   int
	faces    [6]*Quad // The 6 quad faces, primitive IDs 0-5
	bbox     core.AABB
}

// NewBox creates a new box with the given center, size and rotation.
// Size represents half-extents (so a size of (1,1,1) creates a 2x2x2 box).
// Rotation is in radians around X, Y, Z axes (applied in that order).
func NewBox(center, size, rotation r3.Vector, geomID int) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
		GeomID:   geomID,
	}
	box.generateFaces()
	return box
}

// NewAxisAlignedBox creates a new axis-aligned box (no rotation)
func NewAxisAlignedBox(center, size r3.Vector, geomID int) *Box {
	return NewBox(center, size, r3.Vector{}, geomID)
}

// generateFaces creates the 6 quad faces of the box
func (b *Box) generateFaces() {
	corners := [8]r3.Vector{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	rotation := mgl64.Rotate3DZ(b.Rotation.Z).Mul3(mgl64.Rotate3DY(b.Rotation.Y)).Mul3(mgl64.Rotate3DX(b.Rotation.X))
	for i := range corners {
		scaled := mgl64.Vec3{corners[i].X * b.Size.X, corners[i].Y * b.Size.Y, corners[i].Z * b.Size.Z}
		rotated := rotation.Mul3x1(scaled)
		corners[i] = core.NewVec3(rotated[0], rotated[1], rotated[2]).Add(b.Center)
	}

	// Each face is a corner and two edge vectors: {corner, u end, v end}
	faces := [6][3]int{
		{4, 5, 7}, // Front (Z+)
		{1, 0, 2}, // Back (Z-)
		{5, 1, 6}, // Right (X+)
		{0, 4, 3}, // Left (X-)
		{3, 7, 2}, // Top (Y+)
		{4, 0, 5}, // Bottom (Y-)
	}
	for i, f := range faces {
		b.faces[i] = NewQuad(corners[f[0]], corners[f[1]].Sub(corners[f[0]]), corners[f[2]].Sub(corners[f[0]]), b.GeomID, i)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Primitives returns the six faces for insertion into an accelerator
func (b *Box) Primitives() []Primitive {
	prims := make([]Primitive, len(b.faces))
	for i, face := range b.faces {
		prims[i] = face
	}
	return prims
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}
