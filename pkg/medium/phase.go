package medium

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-raytransport/pkg/core"
)

// PhaseFunction describes the angular distribution of scattering inside a medium.
// wo points away from the scattering point toward where the light ends up; wi points toward
// where it came from.
type PhaseFunction interface {
	// P evaluates the phase function for the pair of directions
	P(wo, wi r3.Vector) float64
	// SampleP draws wi proportionally to P and returns it with its density
	SampleP(wo r3.Vector, u core.Vec2) (r3.Vector, float64)
}

// HenyeyGreenstein is the one-parameter phase function. G in (-1, 1) is the mean cosine of the
// scattering angle: positive values scatter forward, negative values backward.
type HenyeyGreenstein struct {
	G float64
}

// NewHenyeyGreenstein creates a Henyey-Greenstein phase function
func NewHenyeyGreenstein(g float64) *HenyeyGreenstein {
	return &HenyeyGreenstein{G: g}
}

// henyeyGreenstein evaluates the distribution for the cosine between the incoming propagation
// direction and the outgoing one
func henyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g - 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(denom))
}

// P implements PhaseFunction
func (hg *HenyeyGreenstein) P(wo, wi r3.Vector) float64 {
	return henyeyGreenstein(-wo.Dot(wi), hg.G)
}

// SampleP implements PhaseFunction
func (hg *HenyeyGreenstein) SampleP(wo r3.Vector, u core.Vec2) (r3.Vector, float64) {
	g := hg.G

	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 - g + 2*g*u.X)
		cosTheta = (1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}
	cosTheta = math.Max(-1, math.Min(1, cosTheta))

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	// Angles are measured from the propagation direction, which is -wo
	axis := wo.Mul(-1)
	v1, v2 := core.CoordinateSystem(axis)
	wi := core.SphericalDirection(sinTheta, cosTheta, phi, v1, v2, axis)
	return wi, henyeyGreenstein(cosTheta, g)
}
