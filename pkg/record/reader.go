// Package record defines the decoding contract shared by every game data
// record: a bounds-checked little-endian reader, a located error type and
// generic helpers that decode one buffer or a whole archive.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/nds"
)

// Reader is a little-endian cursor over a record buffer.
//
// Errors are sticky: once a read fails every later read returns the zero
// value and Err reports the first failure. Callers can therefore decode a
// run of fields and check Err once.
type Reader struct {
	record string
	data   []byte
	off    int
	err    error
}

// NewReader returns a Reader over data. The record name is used in errors.
func NewReader(record string, data []byte) *Reader {
	return &Reader{record: record, data: data}
}

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error { return r.err }

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Fail records err against field at the current offset, unless an earlier
// error is already set. It returns the error stored in the reader.
func (r *Reader) Fail(field string, err error) error {
	if r.err == nil {
		r.err = &Error{Record: r.record, Field: field, Offset: r.off, Err: err}
	}
	return r.err
}

// Need reports whether n more bytes are available, failing with
// ErrTooShort otherwise.
func (r *Reader) Need(field string, n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || n > r.Remaining() {
		r.Fail(field, fmt.Errorf("%w: need %d bytes, have %d", ErrTooShort, n, r.Remaining()))
		return false
	}
	return true
}

// NeedElems is Need for count elements of size bytes each.
func (r *Reader) NeedElems(field string, count, size int) bool {
	if count < 0 || size < 0 || (size != 0 && count > r.Remaining()/size) {
		r.Fail(field, fmt.Errorf("%w: need %d elements of %d bytes, have %d bytes",
			ErrTooShort, count, size, r.Remaining()))
		return false
	}
	return r.Need(field, count*size)
}

func (r *Reader) take(field string, n int) []byte {
	if !r.Need(field, n) {
		return nil
	}
	b := r.data[r.off : r.off+n : r.off+n]
	r.off += n
	return b
}

// U8 reads an unsigned byte.
func (r *Reader) U8(field string) uint8 {
	b := r.take(field, 1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bool reads a byte and reports whether it is non-zero.
func (r *Reader) Bool(field string) bool {
	return r.U8(field) != 0
}

// U16 reads a little-endian uint16.
func (r *Reader) U16(field string) uint16 {
	b := r.take(field, 2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32 reads a little-endian uint32.
func (r *Reader) U32(field string) uint32 {
	b := r.take(field, 4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// I16 reads a little-endian int16.
func (r *Reader) I16(field string) int16 { return int16(r.U16(field)) }

// I32 reads a little-endian int32.
func (r *Reader) I32(field string) int32 { return int32(r.U32(field)) }

// Fx16 reads a 1.3.12 fixed-point number.
func (r *Reader) Fx16(field string) nds.Fx16 { return nds.Fx16FromBits(r.U16(field)) }

// Fx32 reads a 1.19.12 fixed-point number.
func (r *Reader) Fx32(field string) nds.Fx32 { return nds.Fx32FromBits(r.U32(field)) }

// Vec3Fx16 reads three Fx16 components.
func (r *Reader) Vec3Fx16(field string) nds.Vec3Fx16 {
	b := r.take(field, nds.Vec3Fx16Size)
	if b == nil {
		return nds.Vec3Fx16{}
	}
	return nds.DecodeVec3Fx16([nds.Vec3Fx16Size]byte(b))
}

// Vec3Fx32 reads three Fx32 components.
func (r *Reader) Vec3Fx32(field string) nds.Vec3Fx32 {
	b := r.take(field, nds.Vec3Fx32Size)
	if b == nil {
		return nds.Vec3Fx32{}
	}
	return nds.DecodeVec3Fx32([nds.Vec3Fx32Size]byte(b))
}

// RGB555 reads a packed BGR555 colour.
func (r *Reader) RGB555(field string) nds.RGB555 { return nds.DecodeRGB555(r.U16(field)) }

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(field string, n int) []byte {
	b := r.take(field, n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// View returns the next n bytes without copying. The view must not outlive
// the decode call.
func (r *Reader) View(field string, n int) []byte {
	return r.take(field, n)
}

// Skip advances past n bytes.
func (r *Reader) Skip(field string, n int) {
	r.take(field, n)
}

// Seek moves the cursor to an absolute offset within the buffer.
func (r *Reader) Seek(field string, off int) {
	if r.err != nil {
		return
	}
	if off < 0 || off > len(r.data) {
		r.Fail(field, fmt.Errorf("%w: offset %d beyond %d bytes", ErrTooShort, off, len(r.data)))
		return
	}
	r.off = off
}
