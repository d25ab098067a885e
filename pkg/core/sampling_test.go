package core

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))

	for i := 0; i < 10000; i++ {
		u := sampler.Get1D()
		test.That(t, u, test.ShouldBeGreaterThanOrEqualTo, 0.0)
		test.That(t, u, test.ShouldBeLessThan, 1.0)
		uv := sampler.Get2D()
		test.That(t, uv.X, test.ShouldBeGreaterThanOrEqualTo, 0.0)
		test.That(t, uv.X, test.ShouldBeLessThan, 1.0)
		test.That(t, uv.Y, test.ShouldBeGreaterThanOrEqualTo, 0.0)
		test.That(t, uv.Y, test.ShouldBeLessThan, 1.0)
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(42)
	b := NewSeededSampler(42)

	for i := 0; i < 100; i++ {
		test.That(t, a.Get1D(), test.ShouldEqual, b.Get1D())
	}
}

func TestSampleExponential(t *testing.T) {
	tests := []struct {
		name     string
		u        float64
		rate     float64
		expected float64
	}{
		{"zero sample", 0, 2, 0},
		{"median", 0.5, 1, math.Ln2},
		{"rate scales distance", 0.5, 2, math.Ln2 / 2},
		{"zero rate", 0.5, 0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleExponential(tt.u, tt.rate)
			if math.IsInf(tt.expected, 1) {
				test.That(t, math.IsInf(got, 1), test.ShouldBeTrue)
				return
			}
			test.That(t, got, test.ShouldAlmostEqual, tt.expected, 1e-12)
		})
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(3)
	for i := 0; i < 1000; i++ {
		d := SampleOnUnitSphere(sampler.Get2D())
		test.That(t, d.Norm(), test.ShouldAlmostEqual, 1.0, 1e-9)
	}
}

func TestCoordinateSystem(t *testing.T) {
	for _, v := range []Vec2{{0, 0}, {0.3, 0.7}, {0.9, 0.1}} {
		n := SampleOnUnitSphere(v)
		s, u := CoordinateSystem(n)
		// Orthonormal basis around n
		test.That(t, s.Dot(n), test.ShouldAlmostEqual, 0.0, 1e-9)
		test.That(t, u.Dot(n), test.ShouldAlmostEqual, 0.0, 1e-9)
		test.That(t, s.Dot(u), test.ShouldAlmostEqual, 0.0, 1e-9)
		test.That(t, s.Norm(), test.ShouldAlmostEqual, 1.0, 1e-9)
		test.That(t, u.Norm(), test.ShouldAlmostEqual, 1.0, 1e-9)
	}
}
