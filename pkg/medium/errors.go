package medium

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrGridFile is returned when the density grid file cannot be opened or read.
	ErrGridFile = errors.New("density grid file unreadable")
	// ErrChromaticExtinction is returned when sigma_a + sigma_s differs between channels.
	ErrChromaticExtinction = errors.New("extinction must be equal in all channels")
	// ErrInvalidGrid is returned for grids with bad dimensions or samples.
	ErrInvalidGrid = errors.New("invalid density grid")
)

// ConstructionError reports why a medium could not be built.
type ConstructionError struct {
	Medium string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %s: %v", e.Medium, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func newConstructionError(medium string, err error) error {
	return &ConstructionError{Medium: medium, Err: err}
}
