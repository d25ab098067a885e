package geometry

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/df07/go-raytransport/pkg/core"
)

func TestTriangleMesh_Primitives(t *testing.T) {
	vertices := []r3.Vector{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	faces := []int{0, 1, 2, 0, 2, 3}

	mesh, err := NewTriangleMesh(4, vertices, faces)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mesh.TriangleCount(), test.ShouldEqual, 2)

	prims := mesh.Primitives()
	for i, p := range prims {
		geomID, primID := p.IDs()
		test.That(t, geomID, test.ShouldEqual, 4)
		test.That(t, primID, test.ShouldEqual, i)
	}

	test.That(t, mesh.BoundingBox(), test.ShouldResemble, core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0)))
	test.That(t, BoundsOf(prims), test.ShouldResemble, mesh.BoundingBox())
}

func TestTriangleMesh_InvalidFaces(t *testing.T) {
	vertices := []r3.Vector{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name  string
		faces []int
	}{
		{"not a multiple of three", []int{0, 1}},
		{"index out of range", []int{0, 1, 3}},
		{"negative index", []int{0, -1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangleMesh(0, vertices, tt.faces)
			test.That(t, err, test.ShouldNotBeNil)
		})
	}
}
