package formats

import (
	"reflect"
	"testing"
)

// TestTruncationIsAllOrNothing cuts every valid fixture at every length and
// checks that decoding either fails or yields exactly the full value.
func TestTruncationIsAllOrNothing(t *testing.T) {
	fixtures := []struct {
		name  string
		data  []byte
		parse func([]byte) (any, error)
	}{
		{"area data", []byte{1, 0, 2, 0, 3, 0, 4, 0}, func(b []byte) (any, error) { return ParseAreaData(b) }},
		{"area map props", []byte{2, 0, 5, 0, 6, 0}, func(b []byte) (any, error) { return ParseAreaMapProps(b) }},
		{"area light", []byte(testAreaLight), func(b []byte) (any, error) { return ParseAreaLight(b) }},
		{"land data", createTestLandData([]uint16{1, 0x8002}, 1, []byte{9, 9, 9}, createTestBDHC()),
			func(b []byte) (any, error) { return ParseLandData(b) }},
		{"bdhc", createTestBDHC(), func(b []byte) (any, error) { return ParseBDHC(b) }},
		{"map matrix", createTestMapMatrix(2, 2, "c1", []uint16{1, 2, 3, 4}, []uint8{5, 6, 7, 8}, []uint16{9, 10, 11, 12}),
			func(b []byte) (any, error) { return ParseMapMatrix(b) }},
		{"map prop animation list", createTestAnimationList(FlagDeferredLoading, 1, 7, 8),
			func(b []byte) (any, error) { return ParseMapPropAnimationList(b) }},
		{"map prop material shapes", createTestMaterialShapes([][2]uint16{{1, 1}, {0, 0}, {1, 0}}, []MaterialShapeIDs{{1, 2}, {3, 4}}),
			func(b []byte) (any, error) { return ParseMapPropMaterialShapes(b) }},
	}

	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			full, err := f.parse(f.data)
			if err != nil {
				t.Fatalf("full decode failed: %v", err)
			}
			for n := 0; n < len(f.data); n++ {
				got, err := f.parse(f.data[:n])
				if err != nil {
					if !reflect.ValueOf(got).IsNil() {
						t.Fatalf("length %d: value returned alongside error", n)
					}
					continue
				}
				if !reflect.DeepEqual(got, full) {
					t.Fatalf("length %d: decoded a different value without error", n)
				}
			}
		})
	}
}
