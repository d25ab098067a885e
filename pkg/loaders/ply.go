package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/core"
	"github.com/df07/go-raytransport/pkg/geometry"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty

	HasNormals bool
	// Indices of x, y, z and nx, ny, nz in VertexProps
	PositionIndices [3]int
	NormalIndices   [3]int
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the mesh data loaded from a PLY file
type PLYData struct {
	Vertices []r3.Vector // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle); polygons are fan triangulated
	Normals  []r3.Vector // Per-vertex normals - empty if not present
}

// LoadPLY loads a PLY file and returns the raw vertex and face data
func LoadPLY(filename string, logger core.Logger) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	data, err := ReadPLY(bufio.NewReaderSize(file, 1024*1024))
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	if logger != nil {
		logger.Infof("loaded PLY %s: %d vertices, %d triangles in %v",
			filename, len(data.Vertices), len(data.Faces)/3, time.Since(startTime))
	}
	return data, nil
}

// LoadPLYMesh loads a PLY file as a triangle mesh tagged with geomID
func LoadPLYMesh(filename string, geomID int, logger core.Logger) (*geometry.TriangleMesh, error) {
	data, err := LoadPLY(filename, logger)
	if err != nil {
		return nil, err
	}
	return geometry.NewTriangleMesh(geomID, data.Vertices, data.Faces)
}

// ReadPLY decodes a PLY stream in any of the three standard formats
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PLY header")
	}

	var elements elementReader
	switch header.Format {
	case "binary_little_endian":
		elements = &binaryElementReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		elements = &binaryElementReader{r: reader, order: binary.BigEndian}
	case "ascii":
		elements = &asciiElementReader{r: reader}
	default:
		return nil, errors.Errorf("unsupported PLY format: %s", header.Format)
	}

	data, err := readPLYData(elements, header)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read PLY data")
	}
	return data, nil
}

// parsePLYHeader parses the PLY header, leaving reader positioned at the first data byte
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string
	found := [3]bool{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, errors.New("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "error reading header")
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid element definition: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, errors.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse property")
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				propIndex := len(header.VertexProps) - 1
				switch prop.Name {
				case "x", "y", "z":
					axis := int(prop.Name[0] - 'x')
					header.PositionIndices[axis] = propIndex
					found[axis] = true
				case "nx", "ny", "nz":
					header.HasNormals = true
					header.NormalIndices[int(prop.Name[1]-'x')] = propIndex
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	if header.VertexCount > 0 && !(found[0] && found[1] && found[2]) {
		return nil, errors.New("vertex element lacks x, y, z properties")
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, errors.New("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, errors.New("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	if getTypeSize(parts[0]) == 0 {
		return PLYProperty{}, errors.Errorf("unsupported data type: %s", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 for unknown types
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// elementReader yields successive scalar values of the element data section
type elementReader interface {
	scalar(dataType string) (float64, error)
}

type binaryElementReader struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryElementReader) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, errors.Errorf("unsupported data type: %s", dataType)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.r, raw); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "char", "int8":
		return float64(int8(raw[0])), nil
	default:
		return float64(raw[0]), nil
	}
}

type asciiElementReader struct {
	r      *bufio.Reader
	fields []string
}

func (a *asciiElementReader) scalar(dataType string) (float64, error) {
	for len(a.fields) == 0 {
		line, err := a.r.ReadString('\n')
		if line == "" && err != nil {
			return 0, err
		}
		a.fields = strings.Fields(line)
	}
	field := a.fields[0]
	a.fields = a.fields[1:]

	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s value %q", dataType, field)
	}
	return value, nil
}

// readPLYData reads the vertex and face elements described by header
func readPLYData(elements elementReader, header *PLYHeader) (*PLYData, error) {
	data := &PLYData{
		Vertices: make([]r3.Vector, 0, header.VertexCount),
		Faces:    make([]int, 0, header.FaceCount*3), // Assuming triangular faces
	}
	if header.HasNormals {
		data.Normals = make([]r3.Vector, 0, header.VertexCount)
	}

	values := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(elements, prop); err != nil {
					return nil, errors.Wrapf(err, "vertex %d", i)
				}
				continue
			}
			v, err := elements.scalar(prop.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read vertex %d property %s", i, prop.Name)
			}
			values[j] = v
		}

		p := header.PositionIndices
		data.Vertices = append(data.Vertices, core.NewVec3(values[p[0]], values[p[1]], values[p[2]]))
		if header.HasNormals {
			n := header.NormalIndices
			data.Normals = append(data.Normals, core.NewVec3(values[n[0]], values[n[1]], values[n[2]]))
		}
	}

	polygon := make([]int, 0, 4)
	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				var err error
				if prop.IsList {
					err = skipList(elements, prop)
				} else {
					_, err = elements.scalar(prop.Type)
				}
				if err != nil {
					return nil, errors.Wrapf(err, "failed to skip face property %s at face %d", prop.Name, i)
				}
				continue
			}

			count, err := elements.scalar(prop.ListType)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read face vertex count at face %d", i)
			}
			if count < 3 {
				return nil, errors.Errorf("face %d has %v vertices", i, count)
			}

			polygon = polygon[:0]
			for k := 0; k < int(count); k++ {
				index, err := elements.scalar(prop.DataType)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to read face indices at face %d", i)
				}
				if index < 0 || int(index) >= header.VertexCount {
					return nil, errors.Errorf("face %d references vertex %v of %d", i, index, header.VertexCount)
				}
				polygon = append(polygon, int(index))
			}

			// Fan triangulation around the first vertex
			for k := 1; k+1 < len(polygon); k++ {
				data.Faces = append(data.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}

	return data, nil
}

// skipList consumes a list property without keeping its values
func skipList(elements elementReader, prop PLYProperty) error {
	count, err := elements.scalar(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := elements.scalar(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}
