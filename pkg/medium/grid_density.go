package medium

import (
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-raytransport/pkg/config"
	"github.com/df07/go-raytransport/pkg/core"
)

// GridDensityMediumName is the registry name of GridDensityMedium
const GridDensityMediumName = "gridDensityMedium"

// extinctionTolerance is how far per-channel extinction may drift from channel 0 and still count
// as equal
const extinctionTolerance = 1e-9

// GridDensityConfig describes a GridDensityMedium
type GridDensityConfig struct {
	G         *float64         `json:"g"`
	File      string           `json:"file"`
	SigmaA    *core.Spectrum   `json:"sigma_a"`
	SigmaS    *core.Spectrum   `json:"sigma_s"`
	Transform *TransformConfig `json:"transform"`
}

// Validate ensures all parts of the config are present and sane.
func (conf *GridDensityConfig) Validate() error {
	var err error
	if conf.G == nil {
		err = multierr.Append(err, errors.New(`"g" is required`))
	} else if *conf.G <= -1 || *conf.G >= 1 {
		err = multierr.Append(err, errors.Errorf(`"g" must be in (-1, 1), got %v`, *conf.G))
	}
	if conf.File == "" {
		err = multierr.Append(err, errors.New(`"file" is required`))
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

// GridDensityMedium is a heterogeneous medium whose density is read from a lattice placed in the
// world by a Transform. Extinction must be the same in every channel so a single scalar majorant
// drives delta tracking.
type GridDensityMedium struct {
	grid      *DensityGrid
	phase     PhaseFunction
	sigmaA    core.Spectrum
	sigmaS    core.Spectrum
	sigmaT    float64
	transform Transform
}

// NewGridDensityMedium loads the density grid named by conf and builds the medium.
// Every failure is reported as a *ConstructionError.
func NewGridDensityMedium(
	conf *GridDensityConfig,
	resolver config.PathResolver,
	logger core.Logger,
) (*GridDensityMedium, error) {
	if logger == nil {
		logger = core.NopLogger()
	}
	fail := func(err error) (*GridDensityMedium, error) {
		return nil, newConstructionError(GridDensityMediumName, err)
	}

	if err := conf.Validate(); err != nil {
		return fail(err)
	}

	path, err := resolver.Resolve(conf.File)
	if err != nil {
		return fail(errors.Wrapf(ErrGridFile, "%v", err))
	}

	start := time.Now()
	grid, err := LoadDensityGrid(path)
	if err != nil {
		return fail(err)
	}
	nx, ny, nz := grid.Dims()
	logger.Infof("loaded density grid %s: %dx%dx%d, max density %g in %v",
		path, nx, ny, nz, grid.MaxDensity(), time.Since(start))

	return NewGridDensityMediumFromGrid(grid, *conf.G, *conf.SigmaA, *conf.SigmaS, conf.Transform)
}

// NewGridDensityMediumFromGrid builds the medium around an already loaded grid.
// Failures are reported as a *ConstructionError.
func NewGridDensityMediumFromGrid(
	grid *DensityGrid,
	g float64,
	sigmaA, sigmaS core.Spectrum,
	transformConfig *TransformConfig,
) (*GridDensityMedium, error) {
	if err := multierr.Combine(
		checkNonNegative("sigma_a", &sigmaA),
		checkNonNegative("sigma_s", &sigmaS),
	); err != nil {
		return nil, newConstructionError(GridDensityMediumName, err)
	}

	sigmaT := sigmaA[0] + sigmaS[0]
	for c := 1; c < core.SpectrumChannels; c++ {
		if math.Abs(sigmaA[c]+sigmaS[c]-sigmaT) > extinctionTolerance*math.Max(1, sigmaT) {
			return nil, newConstructionError(GridDensityMediumName, errors.Wrapf(ErrChromaticExtinction,
				"channel %d has %v, channel 0 has %v", c, sigmaA[c]+sigmaS[c], sigmaT))
		}
	}

	transform, err := transformConfig.Build()
	if err != nil {
		return nil, newConstructionError(GridDensityMediumName, errors.Wrap(err, "invalid transform"))
	}

	return &GridDensityMedium{
		grid:      grid,
		phase:     NewHenyeyGreenstein(g),
		sigmaA:    sigmaA,
		sigmaS:    sigmaS,
		sigmaT:    sigmaT,
		transform: transform,
	}, nil
}

// Density evaluates the grid at p in the local unit cube
func (m *GridDensityMedium) Density(p r3.Vector) float64 {
	return m.grid.Density(p)
}

// vacuum reports whether the majorant is zero, in which case no collision can ever happen
func (m *GridDensityMedium) vacuum() bool {
	return m.sigmaT <= 0 || m.grid.MaxDensity() <= 0
}

// step advances t by one tentative collision distance against the majorant
func (m *GridDensityMedium) step(t float64, sampler core.Sampler) float64 {
	return t - math.Log(1-sampler.Get1D())*m.grid.InvMaxDensity()/m.sigmaT
}

// SampleForward performs delta (Woodcock) tracking from ray.TNear. Tentative collisions are
// accepted with probability density/maxDensity; the rest are null collisions and tracking
// continues. A flight reaching ray.TFar passes through with unit weight.
func (m *GridDensityMedium) SampleForward(ray core.Ray, sampler core.Sampler) Interaction {
	passThrough := Interaction{
		Position: ray.At(ray.TFar),
		T:        ray.TFar,
		Weight:   core.NewSpectrum(1),
	}
	if m.vacuum() {
		return passThrough
	}

	localOrigin, localDir := m.transform.ToLocal(ray.Origin, ray.Direction)
	invMax := m.grid.InvMaxDensity()

	t := ray.TNear
	for {
		t = m.step(t, sampler)
		if t >= ray.TFar {
			return passThrough
		}
		if m.grid.Density(localOrigin.Add(localDir.Mul(t)))*invMax > sampler.Get1D() {
			return Interaction{
				Position:  ray.At(t),
				T:         t,
				Weight:    m.sigmaS.Scale(1 / m.sigmaT),
				Scattered: true,
			}
		}
	}
}

// Tr estimates transmittance from p along w over [0, tMax] by ratio tracking. Every tentative
// collision multiplies the estimate by the probability that it was a null collision.
func (m *GridDensityMedium) Tr(p, w r3.Vector, tMax float64, sampler core.Sampler) core.Spectrum {
	if m.vacuum() {
		return core.NewSpectrum(1)
	}

	localOrigin, localDir := m.transform.ToLocal(p, w)
	invMax := m.grid.InvMaxDensity()

	tr := 1.0
	t := 0.0
	for {
		t = m.step(t, sampler)
		if t >= tMax {
			break
		}
		density := m.grid.Density(localOrigin.Add(localDir.Mul(t)))
		tr *= 1 - math.Max(0, math.Min(1, density*invMax))
		if tr == 0 {
			break
		}
	}
	return core.NewSpectrum(tr)
}

// Phase returns the Henyey-Greenstein phase function
func (m *GridDensityMedium) Phase() PhaseFunction {
	return m.phase
}

// SigmaA returns the absorption coefficient
func (m *GridDensityMedium) SigmaA() core.Spectrum {
	return m.sigmaA
}

// SigmaS returns the scattering coefficient
func (m *GridDensityMedium) SigmaS() core.Spectrum {
	return m.sigmaS
}

// SigmaT returns the scalar extinction coefficient
func (m *GridDensityMedium) SigmaT() float64 {
	return m.sigmaT
}

// Grid returns the density lattice
func (m *GridDensityMedium) Grid() *DensityGrid {
	return m.grid
}

// Transform returns the placement of the unit cube in the world
func (m *GridDensityMedium) Transform() Transform {
	return m.transform
}
