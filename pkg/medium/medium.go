// Package medium implements participating media: a heterogeneous medium driven by a density grid
// and a homogeneous one, both sampled with free-flight tracking.
package medium

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/core"
)

// Interaction is the outcome of sampling a free flight along a ray
type Interaction struct {
	Position r3.Vector
	T        float64
	// Weight is the throughput multiplier for the path segment
	Weight core.Spectrum
	// Scattered is false when the flight passed through to ray.TFar
	Scattered bool
}

// Medium is a volume that attenuates and scatters light. Implementations are immutable after
// construction; callers pass in their own sampler.
type Medium interface {
	// SampleForward samples a distance along ray within [TNear, TFar]
	SampleForward(ray core.Ray, sampler core.Sampler) Interaction
	// Tr estimates transmittance from p along w over [0, tMax]
	Tr(p, w r3.Vector, tMax float64, sampler core.Sampler) core.Spectrum
	// Phase returns the phase function used at scattering events
	Phase() PhaseFunction
}

// checkNonNegative rejects a coefficient spectrum with a negative channel. A nil spectrum passes.
func checkNonNegative(name string, s *core.Spectrum) error {
	if s == nil {
		return nil
	}
	for _, v := range s {
		if v < 0 {
			return errors.Errorf("%q must be non-negative, got %v", name, *s)
		}
	}
	return nil
}
