package narc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// testArchive describes a NARC to build for tests.
type testArchive struct {
	files   [][]byte
	fnt     []byte // BTNF body; nil writes a name-less root directory
	noFNT   bool
	order   binary.ByteOrder
	extra   []byte // bytes appended after the declared archive
	unknown bool   // insert an unknown chunk before GMIF
}

func chunk(order binary.ByteOrder, tag string, body []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(tag)
	binary.Write(buf, order, uint32(8+len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// createTestNARC builds a NARC from the description.
func createTestNARC(ta testArchive) []byte {
	order := ta.order
	if order == nil {
		order = binary.LittleEndian
	}

	image := new(bytes.Buffer)
	fat := new(bytes.Buffer)
	binary.Write(fat, order, uint16(len(ta.files)))
	binary.Write(fat, order, uint16(0))
	for _, f := range ta.files {
		start := uint32(image.Len())
		image.Write(f)
		binary.Write(fat, order, start)
		binary.Write(fat, order, uint32(image.Len()))
		for image.Len()%4 != 0 {
			image.WriteByte(0xFF)
		}
	}

	fnt := ta.fnt
	if fnt == nil {
		fnt = make([]byte, 8)
		order.PutUint32(fnt[0:], 4)
		order.PutUint16(fnt[6:], 1)
	}

	var chunks [][]byte
	chunks = append(chunks, chunk(order, tagFAT, fat.Bytes()))
	if !ta.noFNT {
		chunks = append(chunks, chunk(order, tagFNT, fnt))
	}
	if ta.unknown {
		chunks = append(chunks, chunk(order, "KNUK", []byte{1, 2, 3, 4}))
	}
	chunks = append(chunks, chunk(order, tagFIMG, image.Bytes()))

	size := headerSize
	for _, c := range chunks {
		size += len(c)
	}

	buf := new(bytes.Buffer)
	buf.WriteString(narcMagic)
	if order == binary.ByteOrder(binary.BigEndian) {
		buf.Write([]byte{0xFF, 0xFE})
	} else {
		buf.Write([]byte{0xFE, 0xFF})
	}
	binary.Write(buf, order, uint16(0x0100))
	binary.Write(buf, order, uint32(size))
	binary.Write(buf, order, uint16(headerSize))
	binary.Write(buf, order, uint16(len(chunks)))
	for _, c := range chunks {
		buf.Write(c)
	}
	buf.Write(ta.extra)
	return buf.Bytes()
}

// rootNames builds a BTNF body listing names in the root directory.
func rootNames(names ...string) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(8))
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	for _, n := range names {
		buf.WriteByte(byte(len(n)))
		buf.WriteString(n)
	}
	buf.WriteByte(0)
	return buf.Bytes()
}

func TestOpen_ValidArchive(t *testing.T) {
	files := [][]byte{{0x01, 0x02, 0x03}, {}, bytes.Repeat([]byte{0xAB}, 9)}
	a, err := Open(createTestNARC(testArchive{files: files}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if a.Len() != 3 {
		t.Fatalf("expected 3 files, got %d", a.Len())
	}
	if a.Version() != 0x0100 {
		t.Errorf("expected version 0x0100, got %#x", a.Version())
	}
	if a.ByteOrder() != binary.ByteOrder(binary.LittleEndian) {
		t.Errorf("expected little endian, got %v", a.ByteOrder())
	}
	if a.HasNames() {
		t.Error("expected a name-less archive")
	}

	for i, want := range files {
		got, err := a.File(i)
		if err != nil {
			t.Fatalf("File(%d) failed: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("File(%d): expected %v, got %v", i, want, got)
		}
		if cap(got) != len(got) {
			t.Errorf("File(%d): capacity %d exceeds length %d", i, cap(got), len(got))
		}
		if a.Name(i) != "" {
			t.Errorf("Name(%d): expected empty, got %q", i, a.Name(i))
		}
	}

	e, err := a.Entry(2)
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if e.Offset != 4 || e.Size != 9 {
		t.Errorf("unexpected entry: %+v", e)
	}

	n := 0
	for i, data := range a.All() {
		if !bytes.Equal(data, files[i]) {
			t.Errorf("All: file %d mismatch", i)
		}
		n++
	}
	if n != 3 {
		t.Errorf("All yielded %d files", n)
	}
}

func TestFile_IndexCoverage(t *testing.T) {
	a, err := Open(createTestNARC(testArchive{files: [][]byte{{1}, {2}}}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	for i := 0; i < a.Len(); i++ {
		if _, err := a.File(i); err != nil {
			t.Errorf("File(%d) failed: %v", i, err)
		}
	}
	for _, i := range []int{a.Len(), a.Len() + 1, -1} {
		if _, err := a.File(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("File(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
		if _, err := a.Entry(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Entry(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestOpen_Errors(t *testing.T) {
	valid := createTestNARC(testArchive{files: [][]byte{{1, 2, 3, 4}}})

	// FAT entry 0 lives after the NARC header, the BTAF chunk header and the
	// count/reserved words.
	fatEntryOff := headerSize + chunkHead + 4

	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantErr error
	}{
		{"empty", func(b []byte) []byte { return nil }, ErrTruncated},
		{"short header", func(b []byte) []byte { return b[:10] }, ErrTruncated},
		{"bad magic", func(b []byte) []byte { copy(b, "CRAN"); return b }, ErrBadMagic},
		{"bad bom", func(b []byte) []byte { b[4], b[5] = 0x12, 0x34; return b }, ErrBadByteOrder},
		{"declared size too large", func(b []byte) []byte { return b[:len(b)-1] }, ErrTruncated},
		{"chunk size too large", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[headerSize+4:], 0xFFFF)
			return b
		}, ErrTruncated},
		{"chunk size too small", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[headerSize+4:], 4)
			return b
		}, ErrTruncated},
		{"entry end past image", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[fatEntryOff+4:], 5)
			return b
		}, ErrMalformedTable},
		{"entry start after end", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[fatEntryOff:], 3)
			binary.LittleEndian.PutUint32(b[fatEntryOff+4:], 2)
			return b
		}, ErrMalformedTable},
		{"entry count too large", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[headerSize+chunkHead:], 200)
			return b
		}, ErrMalformedTable},
		{"missing FAT", func(b []byte) []byte { copy(b[headerSize:], "XXXX"); return b }, ErrMissingChunk},
		{"chunk count too large", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[14:], 4)
			return b
		}, ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tt.mutate(bytes.Clone(valid))
			a, err := Open(buf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if a != nil {
				t.Error("expected no archive on error")
			}
		})
	}
}

func TestOpen_MissingImage(t *testing.T) {
	buf := createTestNARC(testArchive{files: [][]byte{{1}}})
	// The GMIF chunk is the last one; rename it.
	idx := bytes.LastIndex(buf, []byte(tagFIMG))
	copy(buf[idx:], "XXXX")
	if _, err := Open(buf); !errors.Is(err, ErrMissingChunk) {
		t.Fatalf("expected ErrMissingChunk, got %v", err)
	}
}

func TestOpen_Options(t *testing.T) {
	buf := createTestNARC(testArchive{files: [][]byte{{7}}})
	copy(buf, "XXXX")
	buf[4], buf[5] = 0, 0

	if _, err := Open(buf, SkipMagicCheck()); !errors.Is(err, ErrBadByteOrder) {
		t.Fatalf("expected ErrBadByteOrder, got %v", err)
	}

	a, err := Open(buf, SkipMagicCheck(), SkipByteOrderCheck())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if a.ByteOrder() != binary.ByteOrder(binary.LittleEndian) {
		t.Error("expected little endian fallback")
	}
}

func TestOpen_TrailingBytesAndUnknownChunks(t *testing.T) {
	buf := createTestNARC(testArchive{
		files:   [][]byte{{1, 2}},
		extra:   []byte{0xDE, 0xAD},
		unknown: true,
	})

	a, err := Open(buf)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var tags []string
	for _, c := range a.Chunks() {
		tags = append(tags, c.Tag)
	}
	want := []string{tagFAT, tagFNT, "KNUK", tagFIMG}
	if len(tags) != len(want) {
		t.Fatalf("expected chunks %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("chunk %d: expected %s, got %s", i, want[i], tags[i])
		}
	}
}

func TestOpen_BigEndian(t *testing.T) {
	files := [][]byte{{1, 2, 3}, {4, 5}}
	a, err := Open(createTestNARC(testArchive{files: files, order: binary.BigEndian, noFNT: true}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if a.ByteOrder() != binary.ByteOrder(binary.BigEndian) {
		t.Error("expected big endian")
	}
	got, err := a.File(1)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if !bytes.Equal(got, files[1]) {
		t.Errorf("expected %v, got %v", files[1], got)
	}
}

func TestNames_Root(t *testing.T) {
	a, err := Open(createTestNARC(testArchive{
		files: [][]byte{{1}, {2}},
		fnt:   rootNames("a.bin", "b.bin"),
	}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !a.HasNames() {
		t.Fatal("expected names")
	}
	if a.Name(1) != "b.bin" {
		t.Errorf("expected b.bin, got %q", a.Name(1))
	}
	if i, ok := a.Lookup("/a.bin"); !ok || i != 0 {
		t.Errorf("Lookup(a.bin): got %d, %v", i, ok)
	}
	if _, ok := a.Lookup("c.bin"); ok {
		t.Error("Lookup(c.bin) should fail")
	}
}

func TestNames_Nested(t *testing.T) {
	// Root (dir 0) holds "top" and sub-directory "sub" (dir 1), which holds
	// "leaf". File ids: top = 0, leaf = 1.
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(16)) // root listing
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint32(16+4+1+3+2+1)) // sub listing
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(0xF000))

	buf.WriteByte(3)
	buf.WriteString("top")
	buf.WriteByte(0x80 + 3)
	buf.WriteString("sub")
	binary.Write(buf, binary.LittleEndian, uint16(0xF001))
	buf.WriteByte(0)

	buf.WriteByte(4)
	buf.WriteString("leaf")
	buf.WriteByte(0)

	a, err := Open(createTestNARC(testArchive{files: [][]byte{{1}, {2}}, fnt: buf.Bytes()}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if a.Name(0) != "top" || a.Name(1) != "sub/leaf" {
		t.Errorf("unexpected names %q, %q", a.Name(0), a.Name(1))
	}
	if i, ok := a.Lookup(`sub\leaf`); !ok || i != 1 {
		t.Errorf("Lookup(sub/leaf): got %d, %v", i, ok)
	}
}

func TestNames_Malformed(t *testing.T) {
	tests := []struct {
		name string
		fnt  []byte
	}{
		{"too short", []byte{1, 2, 3}},
		{"no directories", []byte{8, 0, 0, 0, 0, 0, 0, 0}},
		{"listing past end", []byte{8, 0, 0, 0, 0, 0, 1, 0}},
		{"name past end", append(rootNames()[:8], 5, 'a')},
		{"file id past count", rootNames("a", "b", "c")},
		{"bad directory id", append(rootNames()[:8], 0x81, 'd', 0x05, 0xF0, 0)},
		{"invalid utf-8", append(rootNames()[:8], 1, 0xFF, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := createTestNARC(testArchive{files: [][]byte{{1}, {2}}, fnt: tt.fnt})
			if _, err := Open(buf); !errors.Is(err, ErrMalformedNameTable) {
				t.Fatalf("expected ErrMalformedNameTable, got %v", err)
			}
		})
	}
}
