package geometry

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/core"
)

// TriangleMesh is an indexed triangle set sharing one geometry ID.
// Triangle i of the face list reports primitive ID i.
type TriangleMesh struct {
	GeomID    int
	triangles []*Triangle
	bbox      core.AABB
}

// NewTriangleMesh creates a mesh from vertices and face indices.
// Each group of 3 indices in faces forms a triangle.
func NewTriangleMesh(geomID int, vertices []r3.Vector, faces []int) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, errors.Errorf("face index count %d is not a multiple of 3", len(faces))
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, len(vertices))
			}
		}
		triangles[i] = NewTriangle(vertices[i0], vertices[i1], vertices[i2], geomID, i)
	}

	var bbox core.AABB
	if numTriangles > 0 {
		bbox = triangles[0].BoundingBox()
		for _, tri := range triangles[1:] {
			bbox = bbox.Union(tri.BoundingBox())
		}
	}

	return &TriangleMesh{
		GeomID:    geomID,
		triangles: triangles,
		bbox:      bbox,
	}, nil
}

// Primitives returns the mesh triangles as accelerator primitives
func (tm *TriangleMesh) Primitives() []Primitive {
	prims := make([]Primitive, len(tm.triangles))
	for i, tri := range tm.triangles {
		prims[i] = tri
	}
	return prims
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}
