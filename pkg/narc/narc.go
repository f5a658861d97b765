// Package narc reads Nitro ARChive (NARC) bundles, the indexed file
// containers used throughout Nintendo DS game data.
//
// An archive is parsed once by Open, which validates every structure up
// front. File lookups afterwards are O(1) and return views into the
// caller's buffer.
package narc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
)

const (
	narcMagic  = "NARC"
	tagFAT     = "BTAF"
	tagFNT     = "BTNF"
	tagFIMG    = "GMIF"
	headerSize = 16
	chunkHead  = 8
	fatEntry   = 8
)

// Archive errors.
var (
	ErrBadMagic           = errors.New("invalid NARC magic: expected 'NARC'")
	ErrBadByteOrder       = errors.New("invalid NARC byte order mark")
	ErrTruncated          = errors.New("truncated NARC data")
	ErrMissingChunk       = errors.New("missing NARC chunk")
	ErrMalformedTable     = errors.New("malformed NARC allocation table")
	ErrMalformedNameTable = errors.New("malformed NARC name table")
	ErrIndexOutOfRange    = errors.New("NARC file index out of range")
)

// Header contains the NARC file header.
type Header struct {
	Magic      [4]byte
	BOM        [2]byte
	Version    uint16
	FileSize   uint32
	HeaderSize uint16
	ChunkCount uint16
}

// Chunk describes one chunk found while walking the archive.
type Chunk struct {
	Tag    string
	Offset int // offset of the chunk header in the archive
	Size   int // size including the 8-byte chunk header
}

// Entry describes one file of the archive.
type Entry struct {
	Index  int
	Name   string // empty when the archive carries no names
	Offset int    // offset within the file image
	Size   int
}

type span struct {
	start, end uint32
}

// Archive is a parsed NARC. It is read-only and safe for concurrent use.
type Archive struct {
	header Header
	order  binary.ByteOrder
	chunks []Chunk
	fat    []span
	image  []byte
	names  []string
	byName map[string]int
}

type options struct {
	skipMagic bool
	skipBOM   bool
}

// Option configures Open.
type Option func(*options)

// SkipMagicCheck accepts archives whose first four bytes are not "NARC".
func SkipMagicCheck() Option {
	return func(o *options) { o.skipMagic = true }
}

// SkipByteOrderCheck accepts unknown byte order marks and reads such
// archives as little endian.
func SkipByteOrderCheck() Option {
	return func(o *options) { o.skipBOM = true }
}

// Open parses a NARC held in buf. The archive keeps a reference to buf;
// callers must not modify it while the archive is in use.
func Open(buf []byte, opts ...Option) (*Archive, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &Archive{}
	data, err := a.readHeader(buf, o)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	fat, fnt, err := a.readChunks(data)
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	if err := a.readFileTable(fat); err != nil {
		return nil, fmt.Errorf("reading file table: %w", err)
	}

	if fnt != nil {
		if err := a.readNameTable(fnt); err != nil {
			return nil, fmt.Errorf("reading name table: %w", err)
		}
	}

	return a, nil
}

// readHeader validates the fixed header and returns buf cut to the declared
// archive size.
func (a *Archive) readHeader(buf []byte, o options) ([]byte, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrTruncated, len(buf), headerSize)
	}

	h := &a.header
	copy(h.Magic[:], buf[0:4])
	copy(h.BOM[:], buf[4:6])

	if !o.skipMagic && string(h.Magic[:]) != narcMagic {
		return nil, fmt.Errorf("%w: found %q", ErrBadMagic, h.Magic[:])
	}

	switch {
	case h.BOM == [2]byte{0xFE, 0xFF}:
		a.order = binary.LittleEndian
	case h.BOM == [2]byte{0xFF, 0xFE}:
		a.order = binary.BigEndian
	case o.skipBOM:
		a.order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("%w: % X", ErrBadByteOrder, h.BOM[:])
	}

	h.Version = a.order.Uint16(buf[6:])
	h.FileSize = a.order.Uint32(buf[8:])
	h.HeaderSize = a.order.Uint16(buf[12:])
	h.ChunkCount = a.order.Uint16(buf[14:])

	if uint64(h.FileSize) > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: declared size %d, have %d bytes", ErrTruncated, h.FileSize, len(buf))
	}
	if h.HeaderSize < headerSize || uint32(h.HeaderSize) > h.FileSize {
		return nil, fmt.Errorf("%w: header size %d with archive size %d", ErrTruncated, h.HeaderSize, h.FileSize)
	}

	return buf[:h.FileSize:h.FileSize], nil
}

// readChunks walks the chunk list and returns the bodies of the allocation
// and name tables. The name table body is nil when absent.
func (a *Archive) readChunks(data []byte) (fat, fnt []byte, err error) {
	off := int(a.header.HeaderSize)
	for i := 0; i < int(a.header.ChunkCount); i++ {
		if len(data)-off < chunkHead {
			return nil, nil, fmt.Errorf("%w: chunk %d header at offset %d", ErrTruncated, i, off)
		}
		tag := string(data[off : off+4])
		size := a.order.Uint32(data[off+4:])
		if size < chunkHead || uint64(size) > uint64(len(data)-off) {
			return nil, nil, fmt.Errorf("%w: chunk %q at offset %d declares %d bytes", ErrTruncated, tag, off, size)
		}

		body := data[off+chunkHead : off+int(size) : off+int(size)]
		switch tag {
		case tagFAT:
			if fat != nil {
				return nil, nil, fmt.Errorf("%w: duplicate %s chunk", ErrMalformedTable, tag)
			}
			fat = body
		case tagFNT:
			if fnt != nil {
				return nil, nil, fmt.Errorf("%w: duplicate %s chunk", ErrMalformedNameTable, tag)
			}
			fnt = body
		case tagFIMG:
			if a.image != nil {
				return nil, nil, fmt.Errorf("%w: duplicate %s chunk", ErrMalformedTable, tag)
			}
			a.image = body
		}

		a.chunks = append(a.chunks, Chunk{Tag: tag, Offset: off, Size: int(size)})
		off += int(size)
	}

	if fat == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingChunk, tagFAT)
	}
	if a.image == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingChunk, tagFIMG)
	}
	return fat, fnt, nil
}

func (a *Archive) readFileTable(body []byte) error {
	if len(body) < 4 {
		return fmt.Errorf("%w: %d byte table", ErrMalformedTable, len(body))
	}

	count := int(a.order.Uint16(body[0:]))
	if count > (len(body)-4)/fatEntry {
		return fmt.Errorf("%w: %d entries do not fit in %d bytes", ErrMalformedTable, count, len(body)-4)
	}

	a.fat = make([]span, count)
	for i := range a.fat {
		p := 4 + i*fatEntry
		s := span{start: a.order.Uint32(body[p:]), end: a.order.Uint32(body[p+4:])}
		if s.start > s.end || uint64(s.end) > uint64(len(a.image)) {
			return fmt.Errorf("%w: entry %d spans [%d, %d) in a %d byte image",
				ErrMalformedTable, i, s.start, s.end, len(a.image))
		}
		a.fat[i] = s
	}

	return nil
}

// Header returns the parsed archive header.
func (a *Archive) Header() Header { return a.header }

// ByteOrder returns the byte order selected by the archive's BOM.
func (a *Archive) ByteOrder() binary.ByteOrder { return a.order }

// Version returns the archive format version.
func (a *Archive) Version() uint16 { return a.header.Version }

// Chunks returns the chunks of the archive in file order, including unknown
// ones.
func (a *Archive) Chunks() []Chunk {
	return append([]Chunk(nil), a.chunks...)
}

// Len returns the number of files.
func (a *Archive) Len() int { return len(a.fat) }

// File returns the contents of file i. The slice aliases the archive buffer
// and its capacity is capped at its length.
func (a *Archive) File(i int) ([]byte, error) {
	if i < 0 || i >= len(a.fat) {
		return nil, fmt.Errorf("%w: %d (archive has %d files)", ErrIndexOutOfRange, i, len(a.fat))
	}
	s := a.fat[i]
	return a.image[s.start:s.end:s.end], nil
}

// Entry returns the table entry of file i.
func (a *Archive) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(a.fat) {
		return Entry{}, fmt.Errorf("%w: %d (archive has %d files)", ErrIndexOutOfRange, i, len(a.fat))
	}
	s := a.fat[i]
	return Entry{
		Index:  i,
		Name:   a.Name(i),
		Offset: int(s.start),
		Size:   int(s.end - s.start),
	}, nil
}

// All iterates over every file in index order.
func (a *Archive) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i, s := range a.fat {
			if !yield(i, a.image[s.start:s.end:s.end]) {
				return
			}
		}
	}
}
