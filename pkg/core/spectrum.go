package core

import "math"

// SpectrumChannels is the fixed number of spectral channels carried by a Spectrum
const SpectrumChannels = 3

// Spectrum is a fixed-size set of spectral samples
type Spectrum [SpectrumChannels]float64

// NewSpectrum returns a spectrum with every channel set to v
func NewSpectrum(v float64) Spectrum {
	var s Spectrum
	for i := range s {
		s[i] = v
	}
	return s
}

// NewRGBSpectrum returns a spectrum from three channel values
func NewRGBSpectrum(r, g, b float64) Spectrum {
	return Spectrum{r, g, b}
}

// Add returns the channel-wise sum
func (s Spectrum) Add(other Spectrum) Spectrum {
	for i := range s {
		s[i] += other[i]
	}
	return s
}

// Sub returns the channel-wise difference
func (s Spectrum) Sub(other Spectrum) Spectrum {
	for i := range s {
		s[i] -= other[i]
	}
	return s
}

// Mul returns the channel-wise product
func (s Spectrum) Mul(other Spectrum) Spectrum {
	for i := range s {
		s[i] *= other[i]
	}
	return s
}

// Div returns the channel-wise quotient. Channels divided by zero become zero.
func (s Spectrum) Div(other Spectrum) Spectrum {
	for i := range s {
		if other[i] == 0 {
			s[i] = 0
			continue
		}
		s[i] /= other[i]
	}
	return s
}

// Scale multiplies every channel by f
func (s Spectrum) Scale(f float64) Spectrum {
	for i := range s {
		s[i] *= f
	}
	return s
}

// Exp returns e raised to each channel
func (s Spectrum) Exp() Spectrum {
	for i := range s {
		s[i] = math.Exp(s[i])
	}
	return s
}

// Average returns the mean over channels
func (s Spectrum) Average() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / SpectrumChannels
}

// MaxComponent returns the largest channel value
func (s Spectrum) MaxComponent() float64 {
	m := s[0]
	for _, v := range s[1:] {
		m = math.Max(m, v)
	}
	return m
}

// IsBlack reports whether every channel is zero
func (s Spectrum) IsBlack() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// IsUniform reports whether every channel holds the same value
func (s Spectrum) IsUniform() bool {
	for _, v := range s[1:] {
		if v != s[0] {
			return false
		}
	}
	return true
}
