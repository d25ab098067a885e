package config

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/df07/go-raytransport/pkg/core"
)

var (
	spectrumType = reflect.TypeOf(core.Spectrum{})
	vectorType   = reflect.TypeOf(r3.Vector{})
)

// Decode copies attrs into out, a pointer to a struct tagged with json names.
// Unknown keys are an error.
func Decode(attrs AttributeMap, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			spectrumHook,
			vectorHook,
		),
	})
	if err != nil {
		return errors.Wrap(err, "error creating decoder")
	}
	return errors.Wrap(decoder.Decode(map[string]interface{}(attrs)), "error decoding attributes")
}

func spectrumHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != spectrumType {
		return data, nil
	}
	return ParseSpectrum(data)
}

func vectorHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != vectorType {
		return data, nil
	}
	values, ok := data.([]interface{})
	if !ok {
		return data, nil
	}
	if len(values) != 3 {
		return nil, errors.Errorf("vector needs 3 components, got %d", len(values))
	}
	var v [3]float64
	for i, x := range values {
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return nil, errors.Wrapf(err, "vector component %d", i)
		}
		v[i] = f
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

// ParseSpectrum accepts a scalar (applied to every channel), a one element list, or a list with
// one value per channel.
func ParseSpectrum(data interface{}) (core.Spectrum, error) {
	switch v := data.(type) {
	case core.Spectrum:
		return v, nil
	case []float64:
		values := make([]interface{}, len(v))
		for i := range v {
			values[i] = v[i]
		}
		return ParseSpectrum(values)
	case []interface{}:
		if len(v) == 1 {
			return ParseSpectrum(v[0])
		}
		if len(v) != core.SpectrumChannels {
			return core.Spectrum{}, errors.Errorf("spectrum needs 1 or %d values, got %d", core.SpectrumChannels, len(v))
		}
		var s core.Spectrum
		for i, x := range v {
			f, err := cast.ToFloat64E(x)
			if err != nil {
				return core.Spectrum{}, errors.Wrapf(err, "spectrum channel %d", i)
			}
			s[i] = f
		}
		return s, nil
	default:
		f, err := cast.ToFloat64E(data)
		if err != nil {
			return core.Spectrum{}, errors.Wrap(err, "invalid spectrum")
		}
		return core.NewSpectrum(f), nil
	}
}
