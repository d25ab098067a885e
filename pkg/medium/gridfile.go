package medium

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// maxGridSamples bounds the allocation a corrupt header can request
const maxGridSamples = 1 << 30

// gridByteOrder is the byte order of grid files: the order of the machine that wrote them.
var gridByteOrder = binary.NativeEndian

// ReadDensityGrid decodes a grid: three int32 dimensions followed by nx·ny·nz float32 samples
// in x-major order.
func ReadDensityGrid(r io.Reader) (*DensityGrid, error) {
	var header [3]int32
	if err := binary.Read(r, gridByteOrder, &header); err != nil {
		return nil, errors.Wrapf(ErrGridFile, "error reading header: %v", err)
	}

	nx, ny, nz := int(header[0]), int(header[1]), int(header[2])
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	count := int64(nx) * int64(ny) * int64(nz)
	if count > maxGridSamples {
		return nil, errors.Wrapf(ErrInvalidGrid, "%dx%dx%d exceeds %d samples", nx, ny, nz, maxGridSamples)
	}

	raw := make([]float32, count)
	if err := binary.Read(r, gridByteOrder, raw); err != nil {
		return nil, errors.Wrapf(ErrGridFile, "error reading %d samples: %v", count, err)
	}

	data := make([]float64, count)
	for i, v := range raw {
		data[i] = float64(v)
	}
	return NewDensityGrid(nx, ny, nz, data)
}

// LoadDensityGrid reads a grid file from disk.
func LoadDensityGrid(path string) (*DensityGrid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrGridFile, "%v", err)
	}
	defer file.Close()

	grid, err := ReadDensityGrid(bufio.NewReader(file))
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return grid, nil
}

// WriteDensityGrid encodes g in the format ReadDensityGrid reads.
// Samples are narrowed to float32.
func WriteDensityGrid(w io.Writer, g *DensityGrid) error {
	header := [3]int32{int32(g.nx), int32(g.ny), int32(g.nz)}
	if err := binary.Write(w, gridByteOrder, header); err != nil {
		return errors.Wrap(err, "error writing header")
	}

	raw := make([]float32, len(g.samples))
	for i, v := range g.samples {
		raw[i] = float32(v)
	}
	return errors.Wrap(binary.Write(w, gridByteOrder, raw), "error writing samples")
}

// SaveDensityGrid writes g to path, replacing any existing file.
func SaveDensityGrid(path string, g *DensityGrid) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	buffered := bufio.NewWriter(file)
	if err := WriteDensityGrid(buffered, g); err != nil {
		return err
	}
	return buffered.Flush()
}
