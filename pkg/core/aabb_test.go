package core

import (
	"testing"

	"go.viam.com/test"
)

func TestAABB_Interval(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       Ray
		expectHit bool
		t0, t1    float64
	}{
		{"through center", NewRay(NewVec3(-1, 0.5, 0.5), NewVec3(1, 0, 0)), true, 1, 2},
		{"behind origin", NewRay(NewVec3(2, 0.5, 0.5), NewVec3(1, 0, 0)), false, 0, 0},
		{"origin inside", NewRay(NewVec3(0.5, 0.5, 0.5), NewVec3(0, 1, 0)), true, 0, 0.5},
		{"parallel outside slab", NewRay(NewVec3(-1, 2, 0.5), NewVec3(1, 0, 0)), false, 0, 0},
		{"parallel on face", NewRay(NewVec3(-1, 1, 0.5), NewVec3(1, 0, 0)), true, 1, 2},
		{"negative direction", NewRay(NewVec3(0.5, 0.5, 3), NewVec3(0, 0, -2)), true, 1, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := box.Interval(tt.ray, tt.ray.TNear, tt.ray.TFar)
			test.That(t, ok, test.ShouldEqual, tt.expectHit)
			if !ok {
				return
			}
			test.That(t, t0, test.ShouldAlmostEqual, tt.t0, 1e-9)
			test.That(t, t1, test.ShouldAlmostEqual, tt.t1, 1e-9)
		})
	}
}

func TestAABB_IntervalRespectsWindow(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	ray := NewRaySegment(NewVec3(-1, 0.5, 0.5), NewVec3(1, 0, 0), 0, 0.5)

	// The box lies beyond tFar
	test.That(t, box.Hit(ray, ray.TNear, ray.TFar), test.ShouldBeFalse)
}

func TestAABB_Overlaps(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		other    AABB
		expected bool
	}{
		{"identical", a, true},
		{"contained", NewAABB(NewVec3(0.2, 0.2, 0.2), NewVec3(0.4, 0.4, 0.4)), true},
		{"touching face", NewAABB(NewVec3(1, 0, 0), NewVec3(2, 1, 1)), true},
		{"separated on x", NewAABB(NewVec3(1.01, 0, 0), NewVec3(2, 1, 1)), false},
		{"separated on z", NewAABB(NewVec3(0, 0, -2), NewVec3(1, 1, -0.5)), false},
		{"flat box inside", NewAABB(NewVec3(0.5, 0, 0), NewVec3(0.5, 1, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.That(t, a.Overlaps(tt.other), test.ShouldEqual, tt.expected)
			test.That(t, tt.other.Overlaps(a), test.ShouldEqual, tt.expected)
		})
	}
}

func TestAABB_OctantsTileParent(t *testing.T) {
	parent := NewAABB(NewVec3(-2, 0, 4), NewVec3(2, 2, 8))

	var union AABB
	volume := 0.0
	for i := 0; i < 8; i++ {
		child := parent.Octant(i)
		test.That(t, child.IsValid(), test.ShouldBeTrue)
		size := child.Size()
		volume += size.X * size.Y * size.Z
		if i == 0 {
			union = child
		} else {
			union = union.Union(child)
		}
	}

	test.That(t, union, test.ShouldResemble, parent)
	size := parent.Size()
	test.That(t, volume, test.ShouldAlmostEqual, size.X*size.Y*size.Z, 1e-9)

	upper := parent.Octant(7)
	test.That(t, upper.Min, test.ShouldResemble, parent.Center())
	test.That(t, upper.Max, test.ShouldResemble, parent.Max)
}

func TestAABB_FromPointsAndUnion(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, -1, 0), NewVec3(-1, 2, 3), NewVec3(0, 0, -4))
	test.That(t, box, test.ShouldResemble, NewAABB(NewVec3(-1, -1, -4), NewVec3(1, 2, 3)))

	u := box.Union(NewAABB(NewVec3(5, 5, 5), NewVec3(6, 6, 6)))
	test.That(t, u, test.ShouldResemble, NewAABB(box.Min, NewVec3(6, 6, 6)))
	test.That(t, u.Contains(NewVec3(5.5, 5.5, 5.5)), test.ShouldBeTrue)
	test.That(t, u.Contains(NewVec3(7, 0, 0)), test.ShouldBeFalse)
	// Z is the longest axis
	test.That(t, box.LongestAxis(), test.ShouldEqual, 2)
}
