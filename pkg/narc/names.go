package narc

import (
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/encoding"
)

const (
	dirEntrySize = 8
	dirIDBase    = 0xF000
	maxDirs      = 0x1000
)

// readNameTable parses the BTNF chunk. Archives without names carry a single
// root directory with an empty listing; those leave every name empty.
func (a *Archive) readNameTable(body []byte) error {
	if len(body) < dirEntrySize {
		return fmt.Errorf("%w: %d byte table", ErrMalformedNameTable, len(body))
	}

	dirCount := int(a.order.Uint16(body[6:]))
	if dirCount == 0 || dirCount > maxDirs || dirCount*dirEntrySize > len(body) {
		return fmt.Errorf("%w: %d directories in %d bytes", ErrMalformedNameTable, dirCount, len(body))
	}

	names := make([]string, len(a.fat))
	found := 0

	type pending struct {
		dir    int
		prefix string
	}
	visited := make([]bool, dirCount)
	stack := []pending{{dir: 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur.dir] {
			return fmt.Errorf("%w: directory %d listed twice", ErrMalformedNameTable, cur.dir)
		}
		visited[cur.dir] = true

		entry := body[cur.dir*dirEntrySize:]
		off := int(a.order.Uint32(entry[0:]))
		fileID := int(a.order.Uint16(entry[4:]))

		for {
			if off >= len(body) {
				return fmt.Errorf("%w: directory %d listing runs past the table", ErrMalformedNameTable, cur.dir)
			}
			n := int(body[off])
			off++
			if n == 0 {
				break
			}
			if n == 0x80 {
				return fmt.Errorf("%w: reserved length byte in directory %d", ErrMalformedNameTable, cur.dir)
			}

			isDir := n > 0x80
			if isDir {
				n -= 0x80
			}
			if n > len(body)-off {
				return fmt.Errorf("%w: name in directory %d runs past the table", ErrMalformedNameTable, cur.dir)
			}
			name, err := encoding.UTF8(body[off : off+n])
			if err != nil {
				return fmt.Errorf("%w: directory %d: %v", ErrMalformedNameTable, cur.dir, err)
			}
			off += n

			if isDir {
				if len(body)-off < 2 {
					return fmt.Errorf("%w: directory id in directory %d runs past the table", ErrMalformedNameTable, cur.dir)
				}
				id := int(a.order.Uint16(body[off:]))
				off += 2
				child := id - dirIDBase
				if child <= 0 || child >= dirCount {
					return fmt.Errorf("%w: directory id %#04x out of range", ErrMalformedNameTable, id)
				}
				stack = append(stack, pending{dir: child, prefix: cur.prefix + name + "/"})
				continue
			}

			if fileID >= len(names) {
				return fmt.Errorf("%w: file id %d beyond %d files", ErrMalformedNameTable, fileID, len(names))
			}
			if names[fileID] != "" {
				return fmt.Errorf("%w: file id %d named twice", ErrMalformedNameTable, fileID)
			}
			names[fileID] = cur.prefix + name
			fileID++
			found++
		}
	}

	if found == 0 {
		return nil
	}

	a.names = names
	a.byName = make(map[string]int, found)
	for i, name := range names {
		if name != "" {
			a.byName[name] = i
		}
	}
	return nil
}

// HasNames reports whether the archive carries file names.
func (a *Archive) HasNames() bool { return a.names != nil }

// Name returns the path of file i, or "" when the archive has no names or i
// is out of range.
func (a *Archive) Name(i int) string {
	if i < 0 || i >= len(a.names) {
		return ""
	}
	return a.names[i]
}

// Lookup returns the index of the file at path. Directory components are
// separated by slashes.
func (a *Archive) Lookup(path string) (int, bool) {
	i, ok := a.byName[encoding.NormalizePath(path)]
	return i, ok
}
