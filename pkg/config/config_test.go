package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/df07/go-raytransport/pkg/core"
)

type sampleConfig struct {
	G      *float64      `json:"g"`
	File   string        `json:"file"`
	SigmaA core.Spectrum `json:"sigma_a"`
	Offset r3.Vector     `json:"offset"`
	Nested struct {
		Angle float64 `json:"angle"`
	} `json:"nested"`
}

func TestDecode(t *testing.T) {
	var conf sampleConfig
	err := Decode(AttributeMap{
		"g":       0.3,
		"file":    "density.bin",
		"sigma_a": []interface{}{0.1, 0.2, "0.3"},
		"offset":  []interface{}{1, 2, 3},
		"nested":  map[string]interface{}{"angle": "45"},
	}, &conf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.G, test.ShouldNotBeNil)
	test.That(t, *conf.G, test.ShouldEqual, 0.3)
	test.That(t, conf.File, test.ShouldEqual, "density.bin")
	test.That(t, conf.SigmaA, test.ShouldResemble, core.NewRGBSpectrum(0.1, 0.2, 0.3))
	test.That(t, conf.Offset, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, conf.Nested.Angle, test.ShouldEqual, 45.0)
}

func TestDecodeScalarSpectrum(t *testing.T) {
	var conf sampleConfig
	test.That(t, Decode(AttributeMap{"sigma_a": 2}, &conf), test.ShouldBeNil)
	test.That(t, conf.SigmaA, test.ShouldResemble, core.NewSpectrum(2))
	test.That(t, conf.G, test.ShouldBeNil)
}

func TestDecodeErrors(t *testing.T) {
	var conf sampleConfig
	err := Decode(AttributeMap{"sigma_a": 1, "unknown": true}, &conf)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown")

	err = Decode(AttributeMap{"sigma_a": []interface{}{1, 2}}, &conf)
	test.That(t, err, test.ShouldNotBeNil)

	err = Decode(AttributeMap{"offset": []interface{}{1, 2, 3, 4}}, &conf)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseSpectrum(t *testing.T) {
	s, err := ParseSpectrum([]interface{}{0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, core.NewSpectrum(0.5))

	s, err = ParseSpectrum([]float64{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, core.NewRGBSpectrum(1, 2, 3))

	_, err = ParseSpectrum("red")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAttributeMap(t *testing.T) {
	am := AttributeMap{"name": "fog", "density": "0.5", "count": 3}

	test.That(t, am.Has("name"), test.ShouldBeTrue)
	test.That(t, am.Has("missing"), test.ShouldBeFalse)

	name, err := am.String("name")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, name, test.ShouldEqual, "fog")

	missing, err := am.String("missing")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, missing, test.ShouldEqual, "")

	_, err = am.String("count")
	test.That(t, err, test.ShouldNotBeNil)

	density, err := am.Float64("density", 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, density, test.ShouldEqual, 0.5)

	def, err := am.Float64("missing", 7)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, def, test.ShouldEqual, 7.0)
}

func TestFileResolver(t *testing.T) {
	t.Setenv("RAYTRANSPORT_GRIDS", "/data/grids")

	r := FileResolver{Base: "/scenes/smoke"}

	path, err := r.Resolve("density.bin")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldEqual, filepath.Join("/scenes/smoke", "density.bin"))

	path, err = r.Resolve("${RAYTRANSPORT_GRIDS}/cloud.bin")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldEqual, "/data/grids/cloud.bin")

	_, err = r.Resolve("")
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, ResolverFor("/scenes/smoke/scene.json5").Base, test.ShouldEqual, "/scenes/smoke")
}

func TestReadSceneFile(t *testing.T) {
	t.Setenv("RAYTRANSPORT_G", "0.25")

	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json5")
	contents := `{
		// comments and trailing commas are allowed
		medium: {g: ${RAYTRANSPORT_G}, file: "grid.bin",},
	}`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	var doc map[string]interface{}
	test.That(t, ReadSceneFile(path, &doc), test.ShouldBeNil)

	medium := AttributeMap(doc["medium"].(map[string]interface{}))
	g, err := medium.Float64("g", 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldEqual, 0.25)

	err = ReadSceneFile(filepath.Join(dir, "missing.json5"), &doc)
	test.That(t, err, test.ShouldNotBeNil)
}
