package medium

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-raytransport/pkg/core"
)

func TestHomogeneousTr(t *testing.T) {
	m, err := NewHomogeneousMedium(&HomogeneousConfig{
		SigmaA: spectrumPtr(core.NewRGBSpectrum(0.1, 0, 0.5)),
		SigmaS: spectrumPtr(core.NewRGBSpectrum(0.1, 0, 0.5)),
	})
	test.That(t, err, test.ShouldBeNil)

	tr := m.Tr(r3.Vector{}, r3.Vector{X: 1}, 2, nil)
	test.That(t, tr[0], test.ShouldAlmostEqual, math.Exp(-0.4))
	test.That(t, tr[1], test.ShouldEqual, 1.0)
	test.That(t, tr[2], test.ShouldAlmostEqual, math.Exp(-2))

	tr = m.Tr(r3.Vector{}, r3.Vector{X: 1}, math.Inf(1), nil)
	test.That(t, tr, test.ShouldResemble, core.NewRGBSpectrum(0, 1, 0))
}

func TestHomogeneousSampleForward(t *testing.T) {
	m, err := NewHomogeneousMedium(&HomogeneousConfig{
		G:      0.4,
		SigmaA: spectrumPtr(core.NewSpectrum(0.3)),
		SigmaS: spectrumPtr(core.NewSpectrum(0.7)),
	})
	test.That(t, err, test.ShouldBeNil)
	sampler := core.NewSeededSampler(20)

	ray := core.NewRaySegment(r3.Vector{}, r3.Vector{Z: 1}, 0.5, 2.5)
	const n = 40000
	passes := make([]float64, n)
	for i := range passes {
		mi := m.SampleForward(ray, sampler)
		test.That(t, mi.T, test.ShouldBeBetweenOrEqual, ray.TNear, ray.TFar)
		if mi.Scattered {
			// Gray media weight scattering by the single scattering albedo
			test.That(t, mi.Weight[0], test.ShouldAlmostEqual, 0.7)
			continue
		}
		passes[i] = 1
		test.That(t, mi.Weight[0], test.ShouldAlmostEqual, 1.0)
	}
	test.That(t, stat.Mean(passes, nil), test.ShouldAlmostEqual, math.Exp(-2), 0.01)
}

func TestHomogeneousValidation(t *testing.T) {
	_, err := NewHomogeneousMedium(&HomogeneousConfig{G: 1})
	var constructionErr *ConstructionError
	test.That(t, errors.As(err, &constructionErr), test.ShouldBeTrue)
	test.That(t, constructionErr.Medium, test.ShouldEqual, HomogeneousMediumName)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"sigma_a" is required`)

	_, err = NewHomogeneousMedium(&HomogeneousConfig{
		SigmaA: spectrumPtr(core.NewSpectrum(-1)),
		SigmaS: spectrumPtr(core.NewSpectrum(0)),
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"sigma_a" must be non-negative`)
}
