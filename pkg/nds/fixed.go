// Package nds provides the Nintendo DS numeric primitives found in game data:
// 12-bit fractional fixed-point numbers, fixed-point vectors and 15-bit colours.
package nds

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// FracBits is the number of fractional bits in both fixed-point precisions.
const FracBits = 12

// Byte sizes of the encoded primitives.
const (
	Fx16Size     = 2
	Fx32Size     = 4
	Vec3Fx16Size = Fx16Size * 3
	Vec3Fx32Size = Fx32Size * 3
)

// ErrOutOfRange is returned when a value does not fit its fixed-point or
// colour representation.
var ErrOutOfRange = errors.New("value out of range")

const scale = 1 << FracBits

// Fx16 is a signed 16-bit fixed-point number: 1 sign bit, 3 integer bits and
// 12 fractional bits.
type Fx16 int16

// Fx32 is a signed 32-bit fixed-point number: 1 sign bit, 19 integer bits and
// 12 fractional bits.
type Fx32 int32

// Common constants.
const (
	Fx16One    Fx16 = scale
	Fx16NegOne Fx16 = -scale
	Fx32One    Fx32 = scale
)

// Fx16FromBits reinterprets a raw 16-bit pattern as an Fx16.
func Fx16FromBits(raw uint16) Fx16 {
	return Fx16(int16(raw))
}

// Fx32FromBits reinterprets a raw 32-bit pattern as an Fx32.
func Fx32FromBits(raw uint32) Fx32 {
	return Fx32(int32(raw))
}

// Fx16FromFloat converts f to the nearest Fx16.
func Fx16FromFloat(f float64) (Fx16, error) {
	raw, err := fromFloat(f, math.MinInt16, math.MaxInt16)
	if err != nil {
		return 0, fmt.Errorf("%w: %v does not fit in Fx16", err, f)
	}
	return Fx16(raw), nil
}

// Fx32FromFloat converts f to the nearest Fx32.
func Fx32FromFloat(f float64) (Fx32, error) {
	raw, err := fromFloat(f, math.MinInt32, math.MaxInt32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v does not fit in Fx32", err, f)
	}
	return Fx32(raw), nil
}

func fromFloat(f float64, lo, hi int64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrOutOfRange
	}
	r := math.Round(f * scale)
	if r < float64(lo) || r > float64(hi) {
		return 0, ErrOutOfRange
	}
	return int64(r), nil
}

// Bits returns the raw 16-bit pattern.
func (x Fx16) Bits() uint16 { return uint16(x) }

// Float64 returns the exact value of x.
func (x Fx16) Float64() float64 { return float64(x) / scale }

// Float32 returns the value of x as a float32 (exact, 16 significant bits).
func (x Fx16) Float32() float32 { return float32(x) / scale }

// Clamp limits x to [lo, hi].
func (x Fx16) Clamp(lo, hi Fx16) Fx16 {
	return max(lo, min(x, hi))
}

func (x Fx16) String() string {
	return strconv.FormatFloat(x.Float64(), 'g', -1, 64)
}

// Bits returns the raw 32-bit pattern.
func (x Fx32) Bits() uint32 { return uint32(x) }

// Float64 returns the exact value of x.
func (x Fx32) Float64() float64 { return float64(x) / scale }

// Float32 returns the value of x as a float32. Magnitudes above 2^11 lose
// fractional precision.
func (x Fx32) Float32() float32 { return float32(x.Float64()) }

// Clamp limits x to [lo, hi].
func (x Fx32) Clamp(lo, hi Fx32) Fx32 {
	return max(lo, min(x, hi))
}

func (x Fx32) String() string {
	return strconv.FormatFloat(x.Float64(), 'g', -1, 64)
}

// MarshalYAML renders x as its decimal value in YAML dumps.
func (x Fx16) MarshalYAML() (any, error) { return x.Float64(), nil }

// MarshalYAML renders x as its decimal value in YAML dumps.
func (x Fx32) MarshalYAML() (any, error) { return x.Float64(), nil }
