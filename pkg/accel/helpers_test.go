package accel

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"

	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

// soupGeometries is how many geometry IDs the random soup is spread across
const soupGeometries = 7

// randomTriangleSoup scatters n small triangles through the cube [-5, 5]^3.
// Triangle i belongs to geometry i%soupGeometries with primitive ID i.
func randomTriangleSoup(seed int64, n int) []geometry.Primitive {
	random := rand.New(rand.NewSource(seed))
	point := func(scale float64) r3.Vector {
		return core.NewVec3(
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
		)
	}

	prims := make([]geometry.Primitive, n)
	for i := range prims {
		center := point(5)
		prims[i] = geometry.NewTriangle(
			center.Add(point(0.75)),
			center.Add(point(0.75)),
			center.Add(point(0.75)),
			i%soupGeometries, i,
		)
	}
	return prims
}

// randomRays shoots rays from a shell around the soup toward random points inside it
func randomRays(seed int64, n int) []core.Ray {
	random := rand.New(rand.NewSource(seed))
	rays := make([]core.Ray, n)
	for i := range rays {
		origin := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64())).Mul(12)
		target := core.NewVec3(random.Float64()*8-4, random.Float64()*8-4, random.Float64()*8-4)
		rays[i] = core.NewRay(origin, target.Sub(origin).Normalize())
	}
	return rays
}

// rayResult is everything a caller can observe from one Intersect call
type rayResult struct {
	Hit  Hit
	OK   bool
	TFar float64
}

func traceAll(accel Accelerator, rays []core.Ray) []rayResult {
	results := make([]rayResult, len(rays))
	for i, ray := range rays {
		hit, ok := accel.Intersect(&ray)
		results[i] = rayResult{Hit: hit, OK: ok, TFar: ray.TFar}
	}
	return results
}

// checkAgreement requires accel to report exactly the brute force hit for every ray:
// same geometry, primitive, surface coordinates and distance, and the same TFar afterwards.
// It returns how many rays hit something.
func checkAgreement(t *testing.T, accel Accelerator, reference Accelerator, rays []core.Ray) int {
	t.Helper()

	got := traceAll(accel, rays)
	want := traceAll(reference, rays)
	test.That(t, cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)), test.ShouldBeEmpty)

	hits := 0
	for _, r := range want {
		if r.OK {
			hits++
		}
	}
	return hits
}
