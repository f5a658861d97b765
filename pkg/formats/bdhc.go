package formats

import (
	"errors"
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/nds"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// BDHC layout.
const (
	BDHCMagic      = "BDHC"
	BDHCHeaderSize = 16
	BDHCPointSize  = 8
	BDHCPlateSize  = 8
	BDHCStripSize  = 8
)

// ErrBadBDHCMagic is returned when a BDHC block does not start with "BDHC".
var ErrBadBDHCMagic = fmt.Errorf("%w: invalid BDHC magic", record.ErrInvalidValue)

// BDHCPoint is a corner on the horizontal plane.
type BDHCPoint struct {
	X, Z nds.Fx32
}

// BDHCPlate is a sloped rectangle between two corner points, on the plane
// defined by a normal and a constant.
type BDHCPlate struct {
	FirstPoint  uint16
	SecondPoint uint16
	Normal      uint16
	Constant    uint16
}

// BDHCStrip is a horizontal band of the map that lists the plates crossing
// it through a run of the access list.
type BDHCStrip struct {
	Scanline        nds.Fx32
	AccessListCount uint16
	AccessListStart uint16
}

// BDHC is the terrain height data embedded in land data files.
type BDHC struct {
	Points     []BDHCPoint
	Normals    []nds.Vec3Fx32
	Constants  []nds.Fx32
	Plates     []BDHCPlate
	Strips     []BDHCStrip
	AccessList []uint16 // plate indices
}

// ParseBDHC parses a BDHC block.
func ParseBDHC(data []byte) (*BDHC, error) {
	r := record.NewReader("bdhc", data)

	magic := r.View("magic", len(BDHCMagic))
	if r.Err() != nil {
		return nil, r.Err()
	}
	if string(magic) != BDHCMagic {
		r.Seek("magic", 0)
		return nil, r.Fail("magic", fmt.Errorf("%w: found %q", ErrBadBDHCMagic, magic))
	}

	points := int(r.U16("point count"))
	normals := int(r.U16("normal count"))
	constants := int(r.U16("constant count"))
	plates := int(r.U16("plate count"))
	strips := int(r.U16("strip count"))
	accessList := int(r.U16("access list count"))

	need := points*BDHCPointSize + normals*nds.Vec3Fx32Size + constants*nds.Fx32Size +
		plates*BDHCPlateSize + strips*BDHCStripSize + accessList*2
	if !r.Need("sections", need) {
		return nil, r.Err()
	}

	b := BDHC{
		Points:     make([]BDHCPoint, points),
		Normals:    make([]nds.Vec3Fx32, normals),
		Constants:  make([]nds.Fx32, constants),
		Plates:     make([]BDHCPlate, plates),
		Strips:     make([]BDHCStrip, strips),
		AccessList: make([]uint16, accessList),
	}
	for i := range b.Points {
		b.Points[i] = BDHCPoint{X: r.Fx32("point x"), Z: r.Fx32("point z")}
	}
	for i := range b.Normals {
		b.Normals[i] = r.Vec3Fx32("normal")
	}
	for i := range b.Constants {
		b.Constants[i] = r.Fx32("constant")
	}
	for i := range b.Plates {
		b.Plates[i] = BDHCPlate{
			FirstPoint:  r.U16("plate first point"),
			SecondPoint: r.U16("plate second point"),
			Normal:      r.U16("plate normal"),
			Constant:    r.U16("plate constant"),
		}
	}
	for i := range b.Strips {
		b.Strips[i] = BDHCStrip{
			Scanline:        r.Fx32("strip scanline"),
			AccessListCount: r.U16("strip access list count"),
			AccessListStart: r.U16("strip access list start"),
		}
	}
	for i := range b.AccessList {
		b.AccessList[i] = r.U16("access list plate")
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	return &b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *BDHC) UnmarshalBinary(data []byte) error {
	v, err := ParseBDHC(data)
	if err != nil {
		return err
	}
	*b = *v
	return nil
}

// Validate checks that every index stored in the block refers to an
// existing element. It reports all dangling references.
func (b *BDHC) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{record.ErrOutOfRange}, args...)...))
	}

	for i, p := range b.Plates {
		if int(p.FirstPoint) >= len(b.Points) {
			bad("plate %d: first point %d of %d", i, p.FirstPoint, len(b.Points))
		}
		if int(p.SecondPoint) >= len(b.Points) {
			bad("plate %d: second point %d of %d", i, p.SecondPoint, len(b.Points))
		}
		if int(p.Normal) >= len(b.Normals) {
			bad("plate %d: normal %d of %d", i, p.Normal, len(b.Normals))
		}
		if int(p.Constant) >= len(b.Constants) {
			bad("plate %d: constant %d of %d", i, p.Constant, len(b.Constants))
		}
	}
	for i, s := range b.Strips {
		if int(s.AccessListStart)+int(s.AccessListCount) > len(b.AccessList) {
			bad("strip %d: access list [%d, %d) of %d", i, s.AccessListStart,
				int(s.AccessListStart)+int(s.AccessListCount), len(b.AccessList))
		}
	}
	for i, plate := range b.AccessList {
		if int(plate) >= len(b.Plates) {
			bad("access list %d: plate %d of %d", i, plate, len(b.Plates))
		}
	}

	return errors.Join(errs...)
}
