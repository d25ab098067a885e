package config

import (
	"path/filepath"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// PathResolver turns a file name found in a scene description into a readable path.
type PathResolver interface {
	Resolve(name string) (string, error)
}

// FileResolver expands ${VAR} references and anchors relative names at Base.
type FileResolver struct {
	Base string
}

// Resolve implements PathResolver.
func (r FileResolver) Resolve(name string) (string, error) {
	expanded, err := envsubst.String(name)
	if err != nil {
		return "", errors.Wrapf(err, "error expanding %q", name)
	}
	if expanded == "" {
		return "", errors.New("empty file name")
	}
	if filepath.IsAbs(expanded) || r.Base == "" {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(r.Base, expanded), nil
}

// ResolverFor returns a FileResolver anchored at the directory holding path.
func ResolverFor(path string) FileResolver {
	return FileResolver{Base: filepath.Dir(path)}
}

// ReadSceneFile reads a JSON5 document after environment substitution and unmarshals it into out.
func ReadSceneFile(path string, out interface{}) error {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "error reading %s", path)
	}
	if err := json5.Unmarshal(buf, out); err != nil {
		return errors.Wrapf(err, "error parsing %s", path)
	}
	return nil
}
