package medium

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// densityEpsilon keeps local lookups off the outer faces of the unit cube
const densityEpsilon = 1e-4

// DensityGrid is a regular lattice of non-negative density samples.
// Samples are stored x-major: sample (x, y, z) lives at x·ny·nz + y·nz + z.
type DensityGrid struct {
	nx, ny, nz    int
	nynz          int
	samples       []float64
	maxDensity    float64
	invMaxDensity float64
}

// NewDensityGrid validates data and builds a grid of nx×ny×nz samples.
// Negative or non-finite samples and a length mismatch are errors. An all-zero grid is valid and
// describes a vacuum; its InvMaxDensity is 0.
func NewDensityGrid(nx, ny, nz int, data []float64) (*DensityGrid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, errors.Wrapf(ErrInvalidGrid, "expected %d samples for %dx%dx%d, got %d",
			nx*ny*nz, nx, ny, nz, len(data))
	}
	for i, d := range data {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, errors.Wrapf(ErrInvalidGrid, "sample %d is not finite", i)
		}
	}
	if min := floats.Min(data); min < 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "negative density %v", min)
	}
	grid := &DensityGrid{
		nx:         nx,
		ny:         ny,
		nz:         nz,
		nynz:       ny * nz,
		samples:    data,
		maxDensity: floats.Max(data),
	}
	if grid.maxDensity > 0 {
		grid.invMaxDensity = 1 / grid.maxDensity
	}
	return grid, nil
}

// QueryDensity returns the sample at integer lattice coordinates, or 0 outside the grid.
func (g *DensityGrid) QueryDensity(x, y, z int) float64 {
	if x < 0 || x >= g.nx || y < 0 || y >= g.ny || z < 0 || z >= g.nz {
		return 0
	}
	return g.samples[x*g.nynz+y*g.nz+z]
}

// Trilerp interpolates the lattice at a point in index space, blending along x, then y, then z.
func (g *DensityGrid) Trilerp(p r3.Vector) float64 {
	fx, fy, fz := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	dx, dy, dz := p.X-fx, p.Y-fy, p.Z-fz
	x0, y0, z0 := int(fx), int(fy), int(fz)
	x1, y1, z1 := x0+1, y0+1, z0+1

	y0z0 := dx*g.QueryDensity(x1, y0, z0) + (1-dx)*g.QueryDensity(x0, y0, z0)
	y0z1 := dx*g.QueryDensity(x1, y0, z1) + (1-dx)*g.QueryDensity(x0, y0, z1)
	y1z0 := dx*g.QueryDensity(x1, y1, z0) + (1-dx)*g.QueryDensity(x0, y1, z0)
	y1z1 := dx*g.QueryDensity(x1, y1, z1) + (1-dx)*g.QueryDensity(x0, y1, z1)

	zLow := dy*y1z0 + (1-dy)*y0z0
	zHigh := dy*y1z1 + (1-dy)*y0z1
	return dz*zHigh + (1-dz)*zLow
}

// Density evaluates the grid at p in the local unit cube.
// The cube spans the lattice corner to corner, so lattice point (i, j, k) sits at
// (i/(nx-1), j/(ny-1), k/(nz-1)).
func (g *DensityGrid) Density(p r3.Vector) float64 {
	clamp := func(v float64) float64 {
		return math.Max(math.Min(v, 1-densityEpsilon), densityEpsilon)
	}
	return g.Trilerp(r3.Vector{
		X: clamp(p.X) * float64(g.nx-1),
		Y: clamp(p.Y) * float64(g.ny-1),
		Z: clamp(p.Z) * float64(g.nz-1),
	})
}

// Dims returns the lattice resolution
func (g *DensityGrid) Dims() (int, int, int) {
	return g.nx, g.ny, g.nz
}

// MaxDensity returns the majorant density
func (g *DensityGrid) MaxDensity() float64 {
	return g.maxDensity
}

// InvMaxDensity returns 1 / MaxDensity, or 0 for an empty grid
func (g *DensityGrid) InvMaxDensity() float64 {
	return g.invMaxDensity
}

// Samples returns the raw x-major sample slice. Callers must not modify it.
func (g *DensityGrid) Samples() []float64 {
	return g.samples
}

// MeanDensity returns the average sample value
func (g *DensityGrid) MeanDensity() float64 {
	return floats.Sum(g.samples) / float64(len(g.samples))
}
