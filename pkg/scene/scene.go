// Package scene turns a scene description file into a built accelerator and constructed media.
package scene

import (
	"math"
	"sort"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/accel"
	"github.com/df07/go-raytransport/pkg/config"
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
	"github.com/df07/go-raytransport/pkg/loaders"
	"github.com/df07/go-raytransport/pkg/medium"
)

// DefaultAccelerator is used when a description names none
const DefaultAccelerator = "octree"

// Description is the on-disk form of a scene
type Description struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Accelerator AcceleratorDescription `json:"accelerator"`
	Meshes      []MeshDescription      `json:"meshes"`
	Spheres     []SphereDescription    `json:"spheres"`
	Quads       []QuadDescription      `json:"quads"`
	Discs       []DiscDescription      `json:"discs"`
	Boxes       []BoxDescription       `json:"boxes"`
	Media       []MediumDescription    `json:"media"`
}

// AcceleratorDescription selects and tunes the spatial index
type AcceleratorDescription struct {
	Type        string `json:"type"`
	MaxLeafSize int    `json:"max_leaf_size"`
	MaxDepth    int    `json:"max_depth"`
}

// MeshDescription is a triangle mesh, either loaded from a PLY file or given inline
type MeshDescription struct {
	File     string       `json:"file"`
	Vertices [][3]float64 `json:"vertices"`
	Faces    []int        `json:"faces"`
}

// SphereDescription is a single sphere
type SphereDescription struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// QuadDescription is a parallelogram spanned by U and V from Corner
type QuadDescription struct {
	Corner [3]float64 `json:"corner"`
	U      [3]float64 `json:"u"`
	V      [3]float64 `json:"v"`
}

// DiscDescription is a flat disc facing Normal
type DiscDescription struct {
	Center [3]float64 `json:"center"`
	Normal [3]float64 `json:"normal"`
	Radius float64    `json:"radius"`
}

// BoxDescription is a box of half-extents Size, rotated about X then Y then Z by Rotate degrees
type BoxDescription struct {
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
	Rotate [3]float64 `json:"rotate"`
}

// MediumDescription names a medium and the attributes its constructor decodes
type MediumDescription struct {
	Name       string              `json:"name"`
	Type       string              `json:"type"`
	Attributes config.AttributeMap `json:"attributes"`
}

// Scene contains everything built from a description
type Scene struct {
	Name        string
	Primitives  []geometry.Primitive
	Accelerator accel.Accelerator
	Media       map[string]medium.Medium
	// GeomCount is the number of geometries; geometry IDs run from 0 to GeomCount-1
	GeomCount int
}

// Load reads the description at path and builds it, resolving files relative to its directory
func Load(path string, logger core.Logger) (*Scene, error) {
	var desc Description
	if err := config.ReadSceneFile(path, &desc); err != nil {
		return nil, err
	}
	return Build(&desc, config.ResolverFor(path), logger)
}

// Build constructs the geometry, accelerator and media of desc
func Build(desc *Description, resolver config.PathResolver, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = core.NopLogger()
	}
	if resolver == nil {
		resolver = config.FileResolver{}
	}
	s := &Scene{Name: desc.Name, Media: map[string]medium.Medium{}}

	for i, mesh := range desc.Meshes {
		tm, err := buildMesh(mesh, s.GeomCount, resolver, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d", i)
		}
		s.add(tm.Primitives()...)
	}
	for i, sphere := range desc.Spheres {
		if sphere.Radius <= 0 {
			return nil, errors.Errorf("sphere %d: radius must be positive, got %v", i, sphere.Radius)
		}
		s.add(geometry.NewSphere(vec(sphere.Center), sphere.Radius, s.GeomCount, 0))
	}
	for _, quad := range desc.Quads {
		s.add(geometry.NewQuad(vec(quad.Corner), vec(quad.U), vec(quad.V), s.GeomCount, 0))
	}

	for i, disc := range desc.Discs {
		normal := vec(disc.Normal)
		if disc.Radius <= 0 || normal.Norm2() == 0 {
			return nil, errors.Errorf("disc %d: needs a positive radius and a non-zero normal", i)
		}
		s.add(geometry.NewDisc(vec(disc.Center), normal, disc.Radius, s.GeomCount, 0))
	}
	for i, box := range desc.Boxes {
		size := vec(box.Size)
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return nil, errors.Errorf("box %d: size must be positive, got %v", i, box.Size)
		}
		rotate := vec(box.Rotate).Mul(math.Pi / 180)
		s.add(geometry.NewBox(vec(box.Center), size, rotate, s.GeomCount).Primitives()...)
	}

	accelType := desc.Accelerator.Type
	if accelType == "" {
		accelType = DefaultAccelerator
	}
	start := time.Now()
	a, err := accel.New(accelType, geometry.BoundsOf(s.Primitives), s.Primitives, accel.Options{
		MaxLeafSize: desc.Accelerator.MaxLeafSize,
		MaxDepth:    desc.Accelerator.MaxDepth,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	s.Accelerator = a
	logger.Infof("built %s over %d primitives in %v", accelType, len(s.Primitives), time.Since(start))

	for i, md := range desc.Media {
		if md.Name == "" {
			return nil, errors.Errorf("medium %d has no name", i)
		}
		if _, dup := s.Media[md.Name]; dup {
			return nil, errors.Errorf("duplicate medium name %q", md.Name)
		}
		m, err := medium.New(md.Type, md.Attributes, resolver, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "medium %q", md.Name)
		}
		s.Media[md.Name] = m
	}

	return s, nil
}

// add appends one geometry's primitives and advances the geometry counter
func (s *Scene) add(prims ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, prims...)
	s.GeomCount++
}

// MediumNames returns the names of the scene's media in sorted order
func (s *Scene) MediumNames() []string {
	names := make([]string, 0, len(s.Media))
	for name := range s.Media {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildMesh(mesh MeshDescription, geomID int, resolver config.PathResolver, logger core.Logger) (*geometry.TriangleMesh, error) {
	if mesh.File != "" {
		path, err := resolver.Resolve(mesh.File)
		if err != nil {
			return nil, err
		}
		return loaders.LoadPLYMesh(path, geomID, logger)
	}

	vertices := make([]r3.Vector, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		vertices[i] = vec(v)
	}
	return geometry.NewTriangleMesh(geomID, vertices, mesh.Faces)
}

func vec(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
