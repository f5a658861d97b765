package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kuruyia/sinjoh/pkg/encoding"
	"github.com/Kuruyia/sinjoh/pkg/nds"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// LightCount is the number of hardware lights configured per block.
const LightCount = 4

const areaLightEOF = "EOF"

// Area light parse errors. All of them unwrap to record.ErrInvalidValue.
var (
	ErrEarlyEmptyLine      = fmt.Errorf("%w: empty line inside an area light block", record.ErrInvalidValue)
	ErrMalformedLine       = fmt.Errorf("%w: malformed area light line", record.ErrInvalidValue)
	ErrMalformedParameter  = fmt.Errorf("%w: malformed area light parameter", record.ErrInvalidValue)
	ErrNotEnoughParameters = fmt.Errorf("%w: not enough area light parameters", record.ErrInvalidValue)
	ErrUnterminatedBlock   = fmt.Errorf("%w: area light block ends early", record.ErrInvalidValue)
	ErrMissingEndMarker    = fmt.Errorf("%w: area light text has no EOF line", record.ErrInvalidValue)
)

// BlockLine identifies a line within an area light block.
type BlockLine int

// Lines of an area light block, in file order.
const (
	LineEndTime BlockLine = iota
	LineLight0
	LineLight1
	LineLight2
	LineLight3
	LineDiffuseColor
	LineAmbientColor
	LineSpecularColor
	LineEmissionColor
	blockLineCount
)

// String returns a human-readable line name.
func (l BlockLine) String() string {
	switch l {
	case LineEndTime:
		return "EndTime"
	case LineLight0, LineLight1, LineLight2, LineLight3:
		return fmt.Sprintf("Light%d", l-LineLight0)
	case LineDiffuseColor:
		return "DiffuseColor"
	case LineAmbientColor:
		return "AmbientColor"
	case LineSpecularColor:
		return "SpecularColor"
	case LineEmissionColor:
		return "EmissionColor"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// LineError locates an area light parse failure. Line is 1-based; Param is
// the 0-based comma-separated parameter, or -1 when the whole line is at
// fault.
type LineError struct {
	Line  int
	Kind  BlockLine
	Param int
	Err   error
}

func (e *LineError) Error() string {
	if e.Param < 0 {
		return fmt.Sprintf("area light: line %d (%s): %v", e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("area light: line %d (%s), parameter %d: %v", e.Line, e.Kind, e.Param, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Light holds the settings of one hardware light.
type Light struct {
	// Enabled is false when the file marks the light invalid; Color and
	// Direction are then zero.
	Enabled   bool
	Color     nds.RGB555
	Direction nds.Vec3Fx16
}

// AreaLightBlock is the lighting used until EndTime.
type AreaLightBlock struct {
	// EndTime is in units of two seconds since midnight.
	EndTime uint32

	// Light 0 lights sprites, the map model and most map props; light 1 is
	// unused; light 2 lights building windows; light 3 lights lamp posts,
	// building lights and doors.
	Lights [LightCount]Light

	DiffuseColor  nds.RGB555
	AmbientColor  nds.RGB555
	SpecularColor nds.RGB555
	EmissionColor nds.RGB555
}

// AreaLight is a decoded arealight.narc text file.
type AreaLight struct {
	Blocks []AreaLightBlock
}

// ParseAreaLight parses an area light file.
//
// The file is UTF-8 text made of nine-line blocks separated by blank lines
// and terminated by an "EOF" line. Anything after that line is ignored.
func ParseAreaLight(data []byte) (*AreaLight, error) {
	text, err := encoding.UTF8(data)
	if err != nil {
		return nil, fmt.Errorf("area light: %w: %w", record.ErrInvalidValue, err)
	}

	var (
		blocks []AreaLightBlock
		cur    AreaLightBlock
		kind   = LineEndTime
		lineNo int
		ended  bool
	)

	for i, line := range encoding.Lines(text) {
		lineNo = i + 1

		if line == "" {
			if kind == LineEndTime {
				continue
			}
			return nil, &LineError{Line: lineNo, Kind: kind, Param: -1, Err: ErrEarlyEmptyLine}
		}
		if line == areaLightEOF {
			ended = true
			break
		}

		params := strings.Split(line, ",")
		switch {
		case kind == LineEndTime:
			v, err := strconv.ParseUint(params[0], 10, 32)
			if err != nil {
				return nil, paramError(lineNo, kind, 0, err)
			}
			cur.EndTime = uint32(v)
		case kind <= LineLight3:
			light, err := parseLight(params, lineNo, kind)
			if err != nil {
				return nil, err
			}
			cur.Lights[kind-LineLight0] = light
		default:
			c, err := parseColor(params, 0, lineNo, kind)
			if err != nil {
				return nil, err
			}
			switch kind {
			case LineDiffuseColor:
				cur.DiffuseColor = c
			case LineAmbientColor:
				cur.AmbientColor = c
			case LineSpecularColor:
				cur.SpecularColor = c
			case LineEmissionColor:
				cur.EmissionColor = c
			}
		}

		kind++
		if kind == blockLineCount {
			blocks = append(blocks, cur)
			cur = AreaLightBlock{}
			kind = LineEndTime
		}
	}

	if kind != LineEndTime {
		return nil, &LineError{Line: lineNo, Kind: kind, Param: -1, Err: ErrUnterminatedBlock}
	}
	if !ended {
		return nil, &LineError{Line: lineNo, Kind: kind, Param: -1, Err: ErrMissingEndMarker}
	}

	return &AreaLight{Blocks: blocks}, nil
}

func paramError(line int, kind BlockLine, param int, err error) error {
	return &LineError{Line: line, Kind: kind, Param: param, Err: fmt.Errorf("%w: %v", ErrMalformedParameter, err)}
}

// parseLight parses "valid,r,g,b,x,y,z". Only valid == 1 enables the light.
func parseLight(params []string, line int, kind BlockLine) (Light, error) {
	if params[0] != "1" {
		return Light{}, nil
	}

	c, err := parseColor(params, 1, line, kind)
	if err != nil {
		return Light{}, err
	}

	if len(params) < 7 {
		return Light{}, &LineError{Line: line, Kind: kind, Param: -1, Err: ErrNotEnoughParameters}
	}
	var dir [3]int16
	for i := range dir {
		v, err := strconv.ParseInt(params[4+i], 10, 16)
		if err != nil {
			return Light{}, paramError(line, kind, 4+i, err)
		}
		dir[i] = int16(v)
	}

	return Light{
		Enabled: true,
		Color:   c,
		Direction: nds.Vec3Fx16{
			X: nds.Fx16(dir[0]),
			Y: nds.Fx16(dir[1]),
			Z: nds.Fx16(dir[2]),
		},
	}, nil
}

// parseColor parses three colour channels starting at params[first].
func parseColor(params []string, first, line int, kind BlockLine) (nds.RGB555, error) {
	if len(params) < first+3 {
		return nds.RGB555{}, &LineError{Line: line, Kind: kind, Param: -1, Err: ErrNotEnoughParameters}
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(params[first+i], 10, 8)
		if err != nil {
			return nds.RGB555{}, paramError(line, kind, first+i, err)
		}
		ch[i] = uint8(v)
	}

	c, err := nds.NewRGB555(ch[0], ch[1], ch[2])
	if err != nil {
		return nds.RGB555{}, &LineError{Line: line, Kind: kind, Param: first, Err: err}
	}
	return c, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *AreaLight) UnmarshalBinary(data []byte) error {
	v, err := ParseAreaLight(data)
	if err != nil {
		return err
	}
	*a = *v
	return nil
}

// Fix clamps every light direction component to [-1, 1], matching how the
// hardware interprets them.
func (a *AreaLight) Fix() {
	for i := range a.Blocks {
		for j := range a.Blocks[i].Lights {
			l := &a.Blocks[i].Lights[j]
			if l.Enabled {
				l.Direction = l.Direction.Clamp(nds.Fx16NegOne, nds.Fx16One)
			}
		}
	}
}
