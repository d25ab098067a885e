// Package config decodes scene and medium attributes into typed configs and resolves the files
// they reference.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// AttributeMap is a convenience wrapper for the loosely typed attributes of a scene entry.
type AttributeMap map[string]interface{}

// Has reports whether name is present.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// String returns the string attribute name, or "" if it is absent.
func (am AttributeMap) String(name string) (string, error) {
	x, has := am[name]
	if !has || x == nil {
		return "", nil
	}
	s, ok := x.(string)
	if !ok {
		return "", errors.Errorf("wanted a string for (%s) but got (%v) %T", name, x, x)
	}
	return s, nil
}

// Float64 returns the numeric attribute name, or def if it is absent.
func (am AttributeMap) Float64(name string, def float64) (float64, error) {
	x, has := am[name]
	if !has {
		return def, nil
	}
	v, err := cast.ToFloat64E(x)
	if err != nil {
		return 0, errors.Wrapf(err, "wanted a number for (%s)", name)
	}
	return v, nil
}
