package medium

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/df07/go-raytransport/pkg/config"
	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/logging"
)

func TestRegistered(t *testing.T) {
	test.That(t, Registered(), test.ShouldResemble, []string{GridDensityMediumName, HomogeneousMediumName})
}

func TestNewFromAttributes(t *testing.T) {
	resolver := saveGrid(t, "smoke.bin", 2, 2, 2, constantData(8, 1))
	logger := logging.NewTestLogger(t)

	m, err := New(GridDensityMediumName, config.AttributeMap{
		"g":       0.3,
		"file":    "smoke.bin",
		"sigma_a": 0.5,
		"sigma_s": []interface{}{0.25, 0.25, 0.25},
		"transform": map[string]interface{}{
			"translate": []interface{}{0, 0, 1},
			"rotate":    map[string]interface{}{"axis": []interface{}{0, 1, 0}, "angle": 45},
			"scale":     []interface{}{2, 2, 2},
		},
	}, resolver, logger)
	test.That(t, err, test.ShouldBeNil)
	grid, ok := m.(*GridDensityMedium)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, grid.SigmaT(), test.ShouldEqual, 0.75)
	test.That(t, grid.Phase().(*HenyeyGreenstein).G, test.ShouldEqual, 0.3)

	m, err = New(HomogeneousMediumName, config.AttributeMap{"sigma_a": 1, "sigma_s": 2}, resolver, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.(*HomogeneousMedium).SigmaT(), test.ShouldResemble, core.NewSpectrum(3))
}

func TestNewErrors(t *testing.T) {
	resolver := saveGrid(t, "smoke.bin", 1, 1, 1, []float64{1})

	_, err := New("fog", config.AttributeMap{}, resolver, nil)
	test.That(t, err, test.ShouldNotBeNil)

	m, err := New(GridDensityMediumName, config.AttributeMap{
		"g": 0, "file": "smoke.bin", "sigma_a": []interface{}{0.1, 0.1, 0.2}, "sigma_s": 0,
	}, resolver, nil)
	test.That(t, m, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrChromaticExtinction), test.ShouldBeTrue)

	_, err = New(GridDensityMediumName, config.AttributeMap{"g": 0, "colour": "blue"}, resolver, nil)
	var constructionErr *ConstructionError
	test.That(t, errors.As(err, &constructionErr), test.ShouldBeTrue)
}
