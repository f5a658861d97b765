// Package narctest builds small NARC archives for tests of code that
// consumes them.
package narctest

import (
	"bytes"
	"encoding/binary"
)

// Build returns a little-endian NARC holding files in order, with a
// name-less name table.
func Build(files ...[]byte) []byte {
	le := binary.LittleEndian

	image := new(bytes.Buffer)
	fat := new(bytes.Buffer)
	binary.Write(fat, le, uint16(len(files)))
	binary.Write(fat, le, uint16(0))
	for _, f := range files {
		binary.Write(fat, le, uint32(image.Len()))
		image.Write(f)
		binary.Write(fat, le, uint32(image.Len()))
		for image.Len()%4 != 0 {
			image.WriteByte(0xFF)
		}
	}

	fnt := make([]byte, 8)
	le.PutUint32(fnt[0:], 4)
	le.PutUint16(fnt[6:], 1)

	chunks := [][]byte{
		chunk("BTAF", fat.Bytes()),
		chunk("BTNF", fnt),
		chunk("GMIF", image.Bytes()),
	}
	size := 16
	for _, c := range chunks {
		size += len(c)
	}

	buf := new(bytes.Buffer)
	buf.WriteString("NARC")
	buf.Write([]byte{0xFE, 0xFF})
	binary.Write(buf, le, uint16(0x0100))
	binary.Write(buf, le, uint32(size))
	binary.Write(buf, le, uint16(16))
	binary.Write(buf, le, uint16(len(chunks)))
	for _, c := range chunks {
		buf.Write(c)
	}
	return buf.Bytes()
}

func chunk(tag string, body []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(tag)
	binary.Write(buf, binary.LittleEndian, uint32(8+len(body)))
	buf.Write(body)
	return buf.Bytes()
}
