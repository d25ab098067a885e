package main

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/df07/go-raytransport/pkg/accel"
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/logging"
	"github.com/df07/go-raytransport/pkg/medium"
	"github.com/df07/go-raytransport/pkg/probe"
	"github.com/df07/go-raytransport/pkg/scene"
)

func loggerFor(c *cli.Context) *zap.SugaredLogger {
	if c.Bool("debug") {
		return logging.NewDebugLogger("raytransport")
	}
	return logging.NewLogger("raytransport")
}

func newTable(c *cli.Context) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetStyle(table.StyleLight)
	// Print headers as written
	t.Style().Format.Header = text.FormatDefault
	return t
}

// shapes generate a density in [0, 1] at a lattice point with coordinates in [0, 1]
var shapes = map[string]func(p r3.Vector, rng *rand.Rand) float64{
	"constant": func(r3.Vector, *rand.Rand) float64 { return 1 },
	"sphere": func(p r3.Vector, _ *rand.Rand) float64 {
		r := p.Sub(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}).Norm()
		return math.Max(0, 1-2*r)
	},
	"slab": func(p r3.Vector, _ *rand.Rand) float64 {
		if p.Y < 0.5 {
			return 1
		}
		return 0
	},
	"noise": func(_ r3.Vector, rng *rand.Rand) float64 { return rng.Float64() },
}

func shapeNames() string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func gridInfo(c *cli.Context) error {
	path, err := requireArg(c, "grid file")
	if err != nil {
		return err
	}
	grid, err := medium.LoadDensityGrid(path)
	if err != nil {
		return err
	}

	nx, ny, nz := grid.Dims()
	nonZero := 0
	for _, d := range grid.Samples() {
		if d > 0 {
			nonZero++
		}
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"File", "Dims", "Samples", "Max", "Mean", "Occupied"})
	t.AppendRow(table.Row{
		path,
		strings.Join([]string{strconv.Itoa(nx), strconv.Itoa(ny), strconv.Itoa(nz)}, "x"),
		len(grid.Samples()),
		grid.MaxDensity(),
		grid.MeanDensity(),
		percent(float64(nonZero) / float64(len(grid.Samples()))),
	})
	t.Render()
	return nil
}

func gridGen(c *cli.Context) error {
	logger := loggerFor(c)
	out, err := requireArg(c, "output file")
	if err != nil {
		return err
	}
	dims := c.IntSlice("dims")
	if len(dims) != 3 {
		return errors.Errorf("--dims needs three values, got %d", len(dims))
	}
	shape, ok := shapes[c.String("shape")]
	if !ok {
		return errors.Errorf("unknown shape %q, expected one of: %s", c.String("shape"), shapeNames())
	}
	peak := c.Float64("density")
	if peak < 0 {
		return errors.Errorf("--density must not be negative, got %v", peak)
	}

	nx, ny, nz := dims[0], dims[1], dims[2]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return errors.Errorf("dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	rng := rand.New(rand.NewSource(c.Int64("seed")))
	data := make([]float64, 0, nx*ny*nz)
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				p := r3.Vector{X: latticeCoord(x, nx), Y: latticeCoord(y, ny), Z: latticeCoord(z, nz)}
				data = append(data, peak*shape(p, rng))
			}
		}
	}

	grid, err := medium.NewDensityGrid(nx, ny, nz, data)
	if err != nil {
		return err
	}
	if err := medium.SaveDensityGrid(out, grid); err != nil {
		return err
	}
	logger.Infof("wrote %dx%dx%d %s grid to %s", nx, ny, nz, c.String("shape"), out)
	return nil
}

// latticeCoord maps lattice index i of n to [0, 1]
func latticeCoord(i, n int) float64 {
	if n == 1 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}

// mediumRay loads the scene and medium named by the flags and builds the query ray
func mediumRay(c *cli.Context, logger core.Logger) (medium.Medium, core.Ray, error) {
	s, err := scene.Load(c.String("scene"), logger)
	if err != nil {
		return nil, core.Ray{}, err
	}
	m, ok := s.Media[c.String("medium")]
	if !ok {
		return nil, core.Ray{}, errors.Errorf("scene has no medium %q (media: %s)",
			c.String("medium"), strings.Join(s.MediumNames(), ", "))
	}

	origin, err := vectorFlag(c, "origin")
	if err != nil {
		return nil, core.Ray{}, err
	}
	dir, err := vectorFlag(c, "dir")
	if err != nil {
		return nil, core.Ray{}, err
	}
	if dir.Norm2() == 0 {
		return nil, core.Ray{}, errors.New("--dir must not be zero")
	}
	tMax := c.Float64("tmax")
	if tMax < 0 {
		return nil, core.Ray{}, errors.Errorf("--tmax must not be negative, got %v", tMax)
	}
	if tMax == 0 {
		tMax = math.Inf(1)
	}
	return m, core.NewRaySegment(origin, dir, 0, tMax), nil
}

func vectorFlag(c *cli.Context, name string) (r3.Vector, error) {
	v := c.Float64Slice(name)
	if len(v) != 3 {
		return r3.Vector{}, errors.Errorf("--%s needs three values, got %d", name, len(v))
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

func newPool(c *cli.Context, logger core.Logger) (*probe.Pool, int, error) {
	n := c.Int("samples")
	if n <= 0 {
		return nil, 0, errors.Errorf("--samples must be positive, got %d", n)
	}
	return probe.NewPool(c.Int("workers"), c.Int64("seed"), logger), n, nil
}

func mediumSample(c *cli.Context) error {
	logger := loggerFor(c)
	m, ray, err := mediumRay(c, logger)
	if err != nil {
		return err
	}
	pool, n, err := newPool(c, logger)
	if err != nil {
		return err
	}
	result, err := pool.Run(c.Context, n, probe.FreeFlight(m, ray))
	if err != nil {
		return err
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"Samples", "Workers", "Scattered", "Mean t", "StdDev t", "Elapsed"})
	t.AppendRow(table.Row{n, result.Workers, percent(result.HitFraction()), result.Mean, result.StdDev, result.Elapsed})
	t.Render()
	return nil
}

func mediumTr(c *cli.Context) error {
	logger := loggerFor(c)
	m, ray, err := mediumRay(c, logger)
	if err != nil {
		return err
	}
	if math.IsInf(ray.TFar, 1) {
		return errors.New("transmittance needs a bounded segment, set --tmax")
	}
	pool, n, err := newPool(c, logger)
	if err != nil {
		return err
	}
	result, err := pool.Run(c.Context, n, probe.Transmittance(m, ray))
	if err != nil {
		return err
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"Samples", "Workers", "Tr", "StdDev", "StdErr", "Elapsed"})
	t.AppendRow(table.Row{
		n, result.Workers, result.Mean, result.StdDev, result.StdDev / math.Sqrt(float64(n)), result.Elapsed,
	})
	t.Render()
	return nil
}

func accelBench(c *cli.Context) error {
	logger := loggerFor(c)
	path, err := requireArg(c, "scene file")
	if err != nil {
		return err
	}
	s, err := scene.Load(path, logger)
	if err != nil {
		return err
	}
	pool, n, err := newPool(c, logger)
	if err != nil {
		return err
	}

	// Every accelerator answers the same ray batch; linear is the reference
	reference, err := pool.Run(c.Context, n, probe.Intersections(accel.NewLinear(s.Primitives)))
	if err != nil {
		return err
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"Accelerator", "Build", "Nodes", "Leaves", "Depth", "Dup", "Hits", "Mismatches", "Query", "Rays/s"})
	for _, name := range accel.Registered() {
		start := time.Now()
		a, err := accel.New(name, s.Accelerator.Bounds(), s.Primitives, accel.Options{Logger: logger})
		if err != nil {
			return err
		}
		build := time.Since(start)

		result, err := pool.Run(c.Context, n, probe.Intersections(a))
		if err != nil {
			return err
		}
		stats := a.Stats()
		t.AppendRow(table.Row{
			name, build, stats.TotalNodes, stats.LeafNodes, stats.MaxDepth,
			stats.Duplication(), percent(result.HitFraction()), mismatches(reference, result),
			result.Elapsed, raysPerSecond(n, result.Elapsed),
		})
	}
	t.Render()
	return nil
}

func raysPerSecond(n int, elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	return int(float64(n) / elapsed.Seconds())
}

// mismatches counts samples where two runs over the same rays disagree on the hit or its distance
func mismatches(a, b *probe.Result) int {
	count := 0
	for i := range a.Values {
		if a.Successes[i] != b.Successes[i] || math.Abs(a.Values[i]-b.Values[i]) > 1e-9 {
			count++
		}
	}
	return count
}

func sceneList(c *cli.Context) error {
	dir, err := requireArg(c, "directory")
	if err != nil {
		return err
	}
	scenes, err := scene.ListScenes(dir, loggerFor(c))
	if err != nil {
		return err
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"ID", "Name", "Meshes", "Spheres", "Quads", "Media", "Description"})
	for _, info := range scenes {
		t.AppendRow(table.Row{info.ID, info.Name, info.Meshes, info.Spheres, info.Quads, info.Media, info.Description})
	}
	t.Render()
	return nil
}

func sceneInfo(c *cli.Context) error {
	path, err := requireArg(c, "scene file")
	if err != nil {
		return err
	}
	s, err := scene.Load(path, loggerFor(c))
	if err != nil {
		return err
	}

	stats := s.Accelerator.Stats()
	t := newTable(c)
	t.AppendHeader(table.Row{"Scene", "Geometries", "Primitives", "Nodes", "Leaves", "Depth", "Media"})
	t.AppendRow(table.Row{
		s.Name, s.GeomCount, len(s.Primitives), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth,
		strings.Join(s.MediumNames(), ", "),
	})
	t.Render()
	return nil
}

func percent(f float64) string {
	return strconv.FormatFloat(100*f, 'f', 1, 64) + "%"
}
