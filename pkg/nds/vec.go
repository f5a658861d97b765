package nds

import (
	"encoding/binary"

	"github.com/Kuruyia/sinjoh/pkg/math"
)

// Vec3Fx16 is a 3D vector of Fx16 components.
type Vec3Fx16 struct {
	X, Y, Z Fx16
}

// Vec3Fx32 is a 3D vector of Fx32 components.
type Vec3Fx32 struct {
	X, Y, Z Fx32
}

// DecodeVec3Fx16 decodes three little-endian Fx16 values (X, Y, Z).
func DecodeVec3Fx16(b [Vec3Fx16Size]byte) Vec3Fx16 {
	return Vec3Fx16{
		X: Fx16FromBits(binary.LittleEndian.Uint16(b[0:])),
		Y: Fx16FromBits(binary.LittleEndian.Uint16(b[2:])),
		Z: Fx16FromBits(binary.LittleEndian.Uint16(b[4:])),
	}
}

// DecodeVec3Fx32 decodes three little-endian Fx32 values (X, Y, Z).
func DecodeVec3Fx32(b [Vec3Fx32Size]byte) Vec3Fx32 {
	return Vec3Fx32{
		X: Fx32FromBits(binary.LittleEndian.Uint32(b[0:])),
		Y: Fx32FromBits(binary.LittleEndian.Uint32(b[4:])),
		Z: Fx32FromBits(binary.LittleEndian.Uint32(b[8:])),
	}
}

// Bytes returns the little-endian encoding of v.
func (v Vec3Fx16) Bytes() [Vec3Fx16Size]byte {
	var b [Vec3Fx16Size]byte
	binary.LittleEndian.PutUint16(b[0:], v.X.Bits())
	binary.LittleEndian.PutUint16(b[2:], v.Y.Bits())
	binary.LittleEndian.PutUint16(b[4:], v.Z.Bits())
	return b
}

// Bytes returns the little-endian encoding of v.
func (v Vec3Fx32) Bytes() [Vec3Fx32Size]byte {
	var b [Vec3Fx32Size]byte
	binary.LittleEndian.PutUint32(b[0:], v.X.Bits())
	binary.LittleEndian.PutUint32(b[4:], v.Y.Bits())
	binary.LittleEndian.PutUint32(b[8:], v.Z.Bits())
	return b
}

// Float converts v to a float vector.
func (v Vec3Fx16) Float() math.Vec3 {
	return math.Vec3{X: v.X.Float32(), Y: v.Y.Float32(), Z: v.Z.Float32()}
}

// Float converts v to a float vector.
func (v Vec3Fx32) Float() math.Vec3 {
	return math.Vec3{X: v.X.Float32(), Y: v.Y.Float32(), Z: v.Z.Float32()}
}

// Clamp limits every component of v to [lo, hi].
func (v Vec3Fx16) Clamp(lo, hi Fx16) Vec3Fx16 {
	return Vec3Fx16{v.X.Clamp(lo, hi), v.Y.Clamp(lo, hi), v.Z.Clamp(lo, hi)}
}
