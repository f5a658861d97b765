package formats

import (
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/encoding"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// MapMatrix arranges maps on a grid (map_matrix.narc). Every per-cell
// slice is row-major with Width*Height entries.
type MapMatrix struct {
	Height uint8
	Width  uint8

	// ModelNamePrefix prefixes the map model names of this matrix.
	ModelNamePrefix string

	// MapHeaderIDs is nil when the matrix has no header id section.
	MapHeaderIDs []uint16
	// Altitudes is nil when the matrix has no altitude section.
	Altitudes []uint8

	LandDataIDs []uint16
}

// ParseMapMatrix parses a map matrix file.
func ParseMapMatrix(data []byte) (*MapMatrix, error) {
	r := record.NewReader("map matrix", data)

	m := MapMatrix{
		Height: r.U8("height"),
		Width:  r.U8("width"),
	}
	hasHeaderIDs := r.Bool("has map header ids")
	hasAltitudes := r.Bool("has altitudes")

	prefixLen := int(r.U8("model name prefix length"))
	prefix := r.View("model name prefix", prefixLen)
	if r.Err() != nil {
		return nil, r.Err()
	}
	s, err := encoding.UTF8(prefix)
	if err != nil {
		r.Seek("model name prefix", r.Offset()-prefixLen)
		return nil, r.Fail("model name prefix", fmt.Errorf("%w: %w", record.ErrInvalidValue, err))
	}
	m.ModelNamePrefix = s

	cells := int(m.Width) * int(m.Height)

	if hasHeaderIDs {
		if !r.NeedElems("map header ids", cells, 2) {
			return nil, r.Err()
		}
		m.MapHeaderIDs = make([]uint16, cells)
		for i := range m.MapHeaderIDs {
			m.MapHeaderIDs[i] = r.U16("map header id")
		}
	}

	if hasAltitudes {
		m.Altitudes = r.Bytes("altitudes", cells)
		if r.Err() != nil {
			return nil, r.Err()
		}
	}

	if !r.NeedElems("land data ids", cells, 2) {
		return nil, r.Err()
	}
	m.LandDataIDs = make([]uint16, cells)
	for i := range m.LandDataIDs {
		m.LandDataIDs[i] = r.U16("land data id")
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	return &m, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MapMatrix) UnmarshalBinary(data []byte) error {
	v, err := ParseMapMatrix(data)
	if err != nil {
		return err
	}
	*m = *v
	return nil
}

// MapCount returns the number of grid cells.
func (m *MapMatrix) MapCount() int {
	return int(m.Width) * int(m.Height)
}

// MapIndexToCoords converts a row-major cell index to (x, y).
func (m *MapMatrix) MapIndexToCoords(index int) (x, y int, err error) {
	if index < 0 || index >= m.MapCount() {
		return 0, 0, fmt.Errorf("%w: map index %d, matrix has %d maps", record.ErrOutOfRange, index, m.MapCount())
	}
	return index % int(m.Width), index / int(m.Width), nil
}
