package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Kuruyia/sinjoh/pkg/nds"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// createTestBDHC builds a small, internally consistent BDHC block: two
// points, one normal, one constant, one plate, one strip and one access list
// entry.
func createTestBDHC() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(BDHCMagic)
	binary.Write(buf, binary.LittleEndian, []uint16{2, 1, 1, 1, 1, 1})

	binary.Write(buf, binary.LittleEndian, []int32{-0x1000, -0x1000, 0x1000, 0x1000}) // points
	binary.Write(buf, binary.LittleEndian, []int32{0, 0x1000, 0})                     // normal
	binary.Write(buf, binary.LittleEndian, int32(0x2000))                             // constant
	binary.Write(buf, binary.LittleEndian, []uint16{0, 1, 0, 0})                      // plate
	binary.Write(buf, binary.LittleEndian, int32(0x1000))                             // strip scanline
	binary.Write(buf, binary.LittleEndian, []uint16{1, 0})                            // strip count, start
	binary.Write(buf, binary.LittleEndian, uint16(0))                                 // access list
	return buf.Bytes()
}

// createTestLandData builds a land data file from raw sections.
func createTestLandData(terrain []uint16, props int, model, bdhc []byte) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(len(terrain)*TerrainAttributeSize))
	binary.Write(buf, binary.LittleEndian, uint32(props*MapPropInstanceSize))
	binary.Write(buf, binary.LittleEndian, uint32(len(model)))
	binary.Write(buf, binary.LittleEndian, uint32(len(bdhc)))

	binary.Write(buf, binary.LittleEndian, terrain)
	for i := 0; i < props; i++ {
		binary.Write(buf, binary.LittleEndian, uint32(100+i))                    // model id
		binary.Write(buf, binary.LittleEndian, []int32{0x1000, 0x2000, 0x3000})  // position
		binary.Write(buf, binary.LittleEndian, []int32{0, 0, 0})                 // rotation
		binary.Write(buf, binary.LittleEndian, []int32{0x1000, 0x1000, 0x1000})  // scale
		binary.Write(buf, binary.LittleEndian, []uint32{0xAAAAAAAA, 0xBBBBBBBB}) // dummies
	}
	buf.Write(model)
	buf.Write(bdhc)
	return buf.Bytes()
}

func TestTerrainAttributesFromRaw(t *testing.T) {
	tests := []struct {
		raw       uint16
		behavior  uint16
		collision bool
	}{
		{0x0000, 0x00, false},
		{0x8000, 0x00, true},
		{0x00FF, 0xFF, false},
		{0x7F12, 0x12, false},
		{0x8169, 0x69, true},
	}
	for _, tt := range tests {
		a := TerrainAttributesFromRaw(tt.raw)
		if a.TileBehavior != tt.behavior || a.HasCollision != tt.collision {
			t.Errorf("raw %#04x: got %+v", tt.raw, a)
		}
	}
}

func TestParseLandData(t *testing.T) {
	model := []byte("BMD0 model bytes")
	data := createTestLandData([]uint16{0x8001, 0x0002, 0x0003}, 2, model, createTestBDHC())

	l, err := ParseLandData(data)
	if err != nil {
		t.Fatalf("ParseLandData failed: %v", err)
	}

	if len(l.TerrainAttributes) != 3 {
		t.Fatalf("expected 3 terrain attributes, got %d", len(l.TerrainAttributes))
	}
	if !l.TerrainAttributes[0].HasCollision || l.TerrainAttributes[0].TileBehavior != 1 {
		t.Errorf("unexpected first tile %+v", l.TerrainAttributes[0])
	}

	if len(l.MapProps) != 2 {
		t.Fatalf("expected 2 map props, got %d", len(l.MapProps))
	}
	p := l.MapProps[1]
	if p.ModelID != 101 {
		t.Errorf("expected model id 101, got %d", p.ModelID)
	}
	if p.Position != (nds.Vec3Fx32{X: 0x1000, Y: 0x2000, Z: 0x3000}) {
		t.Errorf("unexpected position %+v", p.Position)
	}
	if p.Scale.Float().X != 1 {
		t.Errorf("unexpected scale %+v", p.Scale)
	}
	if p.Dummy != [2]uint32{0xAAAAAAAA, 0xBBBBBBBB} {
		t.Errorf("unexpected dummies %x", p.Dummy)
	}

	if !bytes.Equal(l.MapModel, model) {
		t.Errorf("unexpected map model %q", l.MapModel)
	}
	data[LandDataHeaderSize+6+2*MapPropInstanceSize] = 'X'
	if l.MapModel[0] != 'B' {
		t.Error("map model aliases the input buffer")
	}

	if len(l.BDHC.Points) != 2 || len(l.BDHC.Plates) != 1 || len(l.BDHC.AccessList) != 1 {
		t.Errorf("unexpected BDHC %+v", l.BDHC)
	}
	if l.BDHC.Constants[0].Float64() != 2 {
		t.Errorf("expected constant 2, got %v", l.BDHC.Constants[0])
	}
	if err := l.BDHC.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestParseLandData_PartialElements(t *testing.T) {
	data := createTestLandData([]uint16{1, 2}, 0, nil, createTestBDHC())
	// Grow the terrain section by one byte that does not form an element.
	binary.LittleEndian.PutUint32(data[0:], 5)
	data = append(data[:LandDataHeaderSize+4], append([]byte{0xEE}, data[LandDataHeaderSize+4:]...)...)

	l, err := ParseLandData(data)
	if err != nil {
		t.Fatalf("ParseLandData failed: %v", err)
	}
	if len(l.TerrainAttributes) != 2 {
		t.Errorf("expected 2 terrain attributes, got %d", len(l.TerrainAttributes))
	}
}

func TestParseLandData_Errors(t *testing.T) {
	data := createTestLandData(nil, 0, nil, createTestBDHC())
	copy(data[LandDataHeaderSize:], "XXXX")

	_, err := ParseLandData(data)
	if !errors.Is(err, ErrBadBDHCMagic) || !errors.Is(err, record.ErrInvalidValue) {
		t.Fatalf("expected ErrBadBDHCMagic, got %v", err)
	}
	var recErr *record.Error
	if !errors.As(err, &recErr) || recErr.Record != "land data" || recErr.Field != "bdhc" {
		t.Errorf("expected land data bdhc error, got %v", err)
	}

	huge := createTestLandData(nil, 0, nil, nil)
	binary.LittleEndian.PutUint32(huge[8:], 0xFFFFFFF0)
	if _, err := ParseLandData(huge); !errors.Is(err, record.ErrTooShort) {
		t.Errorf("expected ErrTooShort for oversized model, got %v", err)
	}
}

func TestTileIndexToCoords(t *testing.T) {
	tests := []struct {
		index   int
		x, y    int
		wantErr bool
	}{
		{0, 0, 0, false},
		{31, 31, 0, false},
		{32, 0, 1, false},
		{1023, 31, 31, false},
		{1024, 0, 0, true},
		{-1, 0, 0, true},
	}
	for _, tt := range tests {
		x, y, err := TileIndexToCoords(tt.index)
		if tt.wantErr {
			if !errors.Is(err, record.ErrOutOfRange) {
				t.Errorf("index %d: expected ErrOutOfRange, got %v", tt.index, err)
			}
			continue
		}
		if err != nil || x != tt.x || y != tt.y {
			t.Errorf("index %d: got (%d, %d), %v", tt.index, x, y, err)
		}
	}
}

func TestBDHCValidate(t *testing.T) {
	b, err := ParseBDHC(createTestBDHC())
	if err != nil {
		t.Fatalf("ParseBDHC failed: %v", err)
	}

	b.Plates[0].Normal = 4
	b.Strips[0].AccessListCount = 3
	b.AccessList[0] = 9

	err = b.Validate()
	if !errors.Is(err, record.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if n := len(err.(interface{ Unwrap() []error }).Unwrap()); n != 3 {
		t.Errorf("expected 3 problems, got %d: %v", n, err)
	}
}
