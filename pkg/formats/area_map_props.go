package formats

import "github.com/Kuruyia/sinjoh/pkg/record"

// AreaMapProps lists the map props (building models) loaded for an area.
// Files live in area_build.narc.
type AreaMapProps struct {
	MapPropIDs []uint16
}

// ParseAreaMapProps parses a count-prefixed list of map prop ids.
func ParseAreaMapProps(data []byte) (*AreaMapProps, error) {
	r := record.NewReader("area map props", data)

	count := int(r.U16("map prop count"))
	if !r.NeedElems("map prop ids", count, 2) {
		return nil, r.Err()
	}

	ids := make([]uint16, count)
	for i := range ids {
		ids[i] = r.U16("map prop id")
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	return &AreaMapProps{MapPropIDs: ids}, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *AreaMapProps) UnmarshalBinary(data []byte) error {
	v, err := ParseAreaMapProps(data)
	if err != nil {
		return err
	}
	*a = *v
	return nil
}
