package accel

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

// Constructor builds an accelerator over prims inside bounds
type Constructor func(bounds core.AABB, prims []geometry.Primitive, opts Options) Accelerator

var (
	registryMu   sync.RWMutex
	constructors = map[string]Constructor{}
)

func init() {
	Register("octree", func(bounds core.AABB, prims []geometry.Primitive, opts Options) Accelerator {
		return BuildOctree(bounds, prims, opts)
	})
	Register("bvh", func(_ core.AABB, prims []geometry.Primitive, opts Options) Accelerator {
		return BuildBVH(prims, opts)
	})
	Register("linear", func(_ core.AABB, prims []geometry.Primitive, _ Options) Accelerator {
		return NewLinear(prims)
	})
}

// Register associates name with an accelerator constructor. Registering a name twice panics.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := constructors[name]; ok {
		panic(errors.Errorf("accelerator %q already registered", name))
	}
	constructors[name] = ctor
}

// New builds the accelerator registered under name
func New(name string, bounds core.AABB, prims []geometry.Primitive, opts Options) (Accelerator, error) {
	registryMu.RLock()
	ctor, ok := constructors[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown accelerator %q (registered: %v)", name, Registered())
	}
	return ctor(bounds, prims, opts), nil
}

// Registered returns the sorted list of registered accelerator names
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
