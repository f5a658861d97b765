package formats

import (
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/record"
)

// MaterialShapeIDs pairs a material with the shape it is applied to.
type MaterialShapeIDs struct {
	MaterialID uint16
	ShapeID    uint16
}

// MapPropMaterialShapes holds the material/shape pairs of one map prop.
type MapPropMaterialShapes struct {
	// IDsIndex is the position of the first pair in the file's id list.
	IDsIndex uint16
	IDs      []MaterialShapeIDs
}

// MapPropMaterialShapesTable is the decoded build_model_matshp.dat file.
// Entries is indexed by map prop id; props without pairs have a nil entry.
type MapPropMaterialShapesTable struct {
	Entries []*MapPropMaterialShapes
}

// ParseMapPropMaterialShapes parses the whole material/shape table.
func ParseMapPropMaterialShapes(data []byte) (*MapPropMaterialShapesTable, error) {
	r := record.NewReader("map prop material shapes", data)

	locatorCount := int(r.U16("locator count"))
	idCount := int(r.U16("id count"))
	if !r.NeedElems("locators", locatorCount, 4) {
		return nil, r.Err()
	}

	type locator struct {
		count, index uint16
		offset       int
	}
	locators := make([]locator, locatorCount)
	for i := range locators {
		off := r.Offset()
		locators[i] = locator{count: r.U16("locator id count"), index: r.U16("locator id index"), offset: off}
	}

	if !r.NeedElems("ids", idCount, 4) {
		return nil, r.Err()
	}
	ids := make([]MaterialShapeIDs, idCount)
	for i := range ids {
		ids[i] = MaterialShapeIDs{MaterialID: r.U16("material id"), ShapeID: r.U16("shape id")}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	t := &MapPropMaterialShapesTable{Entries: make([]*MapPropMaterialShapes, locatorCount)}
	for i, loc := range locators {
		if loc.count == 0 {
			continue
		}
		start, end := int(loc.index), int(loc.index)+int(loc.count)
		if end > len(ids) {
			return nil, &record.Error{
				Record: "map prop material shapes",
				Field:  fmt.Sprintf("locator %d", i),
				Offset: loc.offset,
				Err:    fmt.Errorf("%w: ids [%d, %d) beyond %d ids", record.ErrOutOfRange, start, end, len(ids)),
			}
		}
		t.Entries[i] = &MapPropMaterialShapes{
			IDsIndex: loc.index,
			IDs:      append([]MaterialShapeIDs(nil), ids[start:end]...),
		}
	}

	return t, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *MapPropMaterialShapesTable) UnmarshalBinary(data []byte) error {
	v, err := ParseMapPropMaterialShapes(data)
	if err != nil {
		return err
	}
	*t = *v
	return nil
}

// Len returns the number of map prop entries, including empty ones.
func (t *MapPropMaterialShapesTable) Len() int { return len(t.Entries) }
