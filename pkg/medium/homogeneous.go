package medium

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-raytransport/pkg/core"
)

// HomogeneousMediumName is the registry name of HomogeneousMedium
const HomogeneousMediumName = "homogeneous"

// HomogeneousConfig describes a HomogeneousMedium. g defaults to 0 (isotropic).
type HomogeneousConfig struct {
	G      float64        `json:"g"`
	SigmaA *core.Spectrum `json:"sigma_a"`
	SigmaS *core.Spectrum `json:"sigma_s"`
}

// Validate ensures all parts of the config are present and sane.
func (conf *HomogeneousConfig) Validate() error {
	var err error
	if conf.G <= -1 || conf.G >= 1 {
		err = multierr.Append(err, errors.Errorf(`"g" must be in (-1, 1), got %v`, conf.G))
	}
	if conf.SigmaA == nil {
		err = multierr.Append(err, errors.New(`"sigma_a" is required`))
	}
	if conf.SigmaS == nil {
		err = multierr.Append(err, errors.New(`"sigma_s" is required`))
	}
	err = multierr.Append(err, checkNonNegative("sigma_a", conf.SigmaA))
	err = multierr.Append(err, checkNonNegative("sigma_s", conf.SigmaS))
	return err
}

// HomogeneousMedium has constant coefficients, which may differ between channels.
// Distances are sampled from a channel picked uniformly and weighted by the average over channels.
type HomogeneousMedium struct {
	phase  PhaseFunction
	sigmaA core.Spectrum
	sigmaS core.Spectrum
	sigmaT core.Spectrum
}

// NewHomogeneousMedium builds the medium from conf. Failures are reported as a *ConstructionError.
func NewHomogeneousMedium(conf *HomogeneousConfig) (*HomogeneousMedium, error) {
	if err := conf.Validate(); err != nil {
		return nil, newConstructionError(HomogeneousMediumName, err)
	}
	return &HomogeneousMedium{
		phase:  NewHenyeyGreenstein(conf.G),
		sigmaA: *conf.SigmaA,
		sigmaS: *conf.SigmaS,
		sigmaT: conf.SigmaA.Add(*conf.SigmaS),
	}, nil
}

// transmittance returns exp(-sigmaT·d) per channel; channels without extinction stay at 1
func (m *HomogeneousMedium) transmittance(d float64) core.Spectrum {
	var tr core.Spectrum
	for c, sigma := range m.sigmaT {
		if sigma == 0 {
			tr[c] = 1
			continue
		}
		tr[c] = math.Exp(-sigma * d)
	}
	return tr
}

// SampleForward implements Medium
func (m *HomogeneousMedium) SampleForward(ray core.Ray, sampler core.Sampler) Interaction {
	channel := int(sampler.Get1D() * core.SpectrumChannels)
	if channel >= core.SpectrumChannels {
		channel = core.SpectrumChannels - 1
	}
	dist := core.SampleExponential(sampler.Get1D(), m.sigmaT[channel])

	t := ray.TNear + dist
	scattered := t < ray.TFar
	if !scattered {
		t = ray.TFar
	}

	tr := m.transmittance(t - ray.TNear)
	density := tr
	if scattered {
		density = m.sigmaT.Mul(tr)
	}
	pdf := density.Average()

	var weight core.Spectrum
	if pdf > 0 {
		if scattered {
			weight = tr.Mul(m.sigmaS).Scale(1 / pdf)
		} else {
			weight = tr.Scale(1 / pdf)
		}
	}

	return Interaction{
		Position:  ray.At(t),
		T:         t,
		Weight:    weight,
		Scattered: scattered,
	}
}

// Tr implements Medium. The result is exact, so the sampler is unused.
func (m *HomogeneousMedium) Tr(_, _ r3.Vector, tMax float64, _ core.Sampler) core.Spectrum {
	return m.transmittance(tMax)
}

// Phase implements Medium
func (m *HomogeneousMedium) Phase() PhaseFunction {
	return m.phase
}

// SigmaT returns the per-channel extinction coefficient
func (m *HomogeneousMedium) SigmaT() core.Spectrum {
	return m.sigmaT
}
