package medium

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/config"
	"github.com/df07/go-raytransport/pkg/core"
)

// Constructor builds a medium from its scene attributes
type Constructor func(attrs config.AttributeMap, resolver config.PathResolver, logger core.Logger) (Medium, error)

var (
	registryMu   sync.RWMutex
	constructors = map[string]Constructor{}
)

func init() {
	Register(GridDensityMediumName, func(
		attrs config.AttributeMap,
		resolver config.PathResolver,
		logger core.Logger,
	) (Medium, error) {
		var conf GridDensityConfig
		if err := config.Decode(attrs, &conf); err != nil {
			return nil, newConstructionError(GridDensityMediumName, err)
		}
		m, err := NewGridDensityMedium(&conf, resolver, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	Register(HomogeneousMediumName, func(
		attrs config.AttributeMap,
		_ config.PathResolver,
		_ core.Logger,
	) (Medium, error) {
		var conf HomogeneousConfig
		if err := config.Decode(attrs, &conf); err != nil {
			return nil, newConstructionError(HomogeneousMediumName, err)
		}
		m, err := NewHomogeneousMedium(&conf)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// Register associates name with a medium constructor. Registering a name twice panics.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := constructors[name]; ok {
		panic(errors.Errorf("medium %q already registered", name))
	}
	constructors[name] = ctor
}

// New constructs the medium registered under name
func New(name string, attrs config.AttributeMap, resolver config.PathResolver, logger core.Logger) (Medium, error) {
	registryMu.RLock()
	ctor, ok := constructors[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown medium %q (registered: %v)", name, Registered())
	}
	return ctor(attrs, resolver, logger)
}

// Registered returns the sorted list of registered medium names
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
