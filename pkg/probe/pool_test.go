package probe

import (
	"context"
	"math"
	"runtime"
	"testing"

	"go.viam.com/test"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-raytransport/pkg/accel"
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
	"github.com/df07/go-raytransport/pkg/logging"
	"github.com/df07/go-raytransport/pkg/medium"
)

func constantMedium(t *testing.T) *medium.GridDensityMedium {
	t.Helper()
	data := make([]float64, 27)
	for i := range data {
		data[i] = 1
	}
	grid, err := medium.NewDensityGrid(3, 3, 3, data)
	test.That(t, err, test.ShouldBeNil)
	m, err := medium.NewGridDensityMediumFromGrid(grid, 0, core.NewSpectrum(0.25), core.NewSpectrum(0.75), nil)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func homogeneousMedium(t *testing.T) *medium.HomogeneousMedium {
	t.Helper()
	sigmaA, sigmaS := core.NewSpectrum(0.5), core.NewSpectrum(0.5)
	m, err := medium.NewHomogeneousMedium(&medium.HomogeneousConfig{SigmaA: &sigmaA, SigmaS: &sigmaS})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestPoolDeterministic(t *testing.T) {
	m := constantMedium(t)
	ray := core.NewRaySegment(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 0, 0.9)

	first, err := NewPool(4, 42, logging.NewTestLogger(t)).Run(context.Background(), 500, Transmittance(m, ray))
	test.That(t, err, test.ShouldBeNil)
	second, err := NewPool(4, 42, nil).Run(context.Background(), 500, Transmittance(m, ray))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second.Values, test.ShouldResemble, first.Values)
	test.That(t, second.Mean, test.ShouldEqual, first.Mean)

	other, err := NewPool(4, 43, nil).Run(context.Background(), 500, Transmittance(m, ray))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, other.Values, test.ShouldNotResemble, first.Values)
}

func TestPoolRatioTrackingEstimate(t *testing.T) {
	m := constantMedium(t)
	ray := core.NewRaySegment(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 0, 0.9)

	pool := NewPool(3, 7, nil)
	result, err := pool.Run(context.Background(), 4000, Transmittance(m, ray))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Hits, test.ShouldEqual, 4000)
	test.That(t, result.HitFraction(), test.ShouldEqual, 1.0)
	test.That(t, result.Mean, test.ShouldAlmostEqual, math.Exp(-0.9), 0.03)
	test.That(t, pool.Completed(), test.ShouldEqual, 4000)
}

func TestPoolHomogeneous(t *testing.T) {
	m := homogeneousMedium(t)

	segment := core.NewRaySegment(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 0, 2)
	result, err := NewPool(2, 1, nil).Run(context.Background(), 100, Transmittance(m, segment))
	test.That(t, err, test.ShouldBeNil)
	for _, v := range result.Values {
		test.That(t, v, test.ShouldAlmostEqual, math.Exp(-2))
	}
	test.That(t, result.StdDev, test.ShouldAlmostEqual, 0)

	// Unbounded ray: every flight scatters with mean free path 1/sigmaT
	unbounded := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	result, err = NewPool(4, 9, nil).Run(context.Background(), 4000, FreeFlight(m, unbounded))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Hits, test.ShouldEqual, 4000)
	test.That(t, result.Mean, test.ShouldAlmostEqual, 1.0, 0.1)

	// A short segment lets some flights pass through
	result, err = NewPool(4, 9, nil).Run(context.Background(), 4000, FreeFlight(m, segment))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.HitFraction(), test.ShouldAlmostEqual, 1-math.Exp(-2), 0.05)
	for i, ok := range result.Successes {
		if ok {
			test.That(t, result.Values[i], test.ShouldBeLessThan, 2)
		}
	}
}

func TestPoolIntersectionsAgree(t *testing.T) {
	var prims []geometry.Primitive
	for i := 0; i < 20; i++ {
		x := float64(i%5) * 2
		y := float64(i/5) * 2
		prims = append(prims, geometry.NewSphere(core.NewVec3(x, y, 0), 0.75, i, 0))
	}
	octree, err := accel.New("octree", geometry.BoundsOf(prims), prims, accel.Options{MaxLeafSize: 2})
	test.That(t, err, test.ShouldBeNil)
	linear, err := accel.New("linear", geometry.BoundsOf(prims), prims, accel.Options{})
	test.That(t, err, test.ShouldBeNil)

	fromOctree, err := NewPool(4, 5, nil).Run(context.Background(), 1000, Intersections(octree))
	test.That(t, err, test.ShouldBeNil)
	fromLinear, err := NewPool(4, 5, nil).Run(context.Background(), 1000, Intersections(linear))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, fromOctree.Hits, test.ShouldBeGreaterThan, 0)
	test.That(t, fromOctree.Successes, test.ShouldResemble, fromLinear.Successes)
	test.That(t, fromOctree.Values, test.ShouldResemble, fromLinear.Values)
	for i, ok := range fromOctree.Successes {
		if ok {
			test.That(t, fromOctree.Values[i], test.ShouldBeGreaterThan, 0)
		}
	}
}

func TestPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := homogeneousMedium(t)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	_, err := NewPool(2, 1, nil).Run(ctx, 100, FreeFlight(m, ray))
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestNewPoolDefaults(t *testing.T) {
	test.That(t, NewPool(0, 1, nil).NumWorkers(), test.ShouldEqual, runtime.NumCPU())
	test.That(t, NewPool(3, 1, nil).NumWorkers(), test.ShouldEqual, 3)

	result, err := NewPool(2, 1, nil).Run(context.Background(), 0, func(int, core.Sampler) (float64, bool) {
		return 1, true
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.HitFraction(), test.ShouldEqual, 0)
}

func TestPoolConcurrentRuns(t *testing.T) {
	pool := NewPool(3, 11, nil)
	always := func(int, core.Sampler) (float64, bool) { return 1, true }
	never := func(int, core.Sampler) (float64, bool) { return 0, false }

	const n = 2000
	var hitAll, hitNone *Result
	var g errgroup.Group
	g.Go(func() error {
		var err error
		hitAll, err = pool.Run(context.Background(), n, always)
		return err
	})
	g.Go(func() error {
		var err error
		hitNone, err = pool.Run(context.Background(), n, never)
		return err
	})
	test.That(t, g.Wait(), test.ShouldBeNil)

	test.That(t, hitAll.Hits, test.ShouldEqual, n)
	test.That(t, hitNone.Hits, test.ShouldEqual, 0)
	test.That(t, hitNone.Mean, test.ShouldEqual, 0)
	test.That(t, pool.Completed(), test.ShouldEqual, 2*n)
}
