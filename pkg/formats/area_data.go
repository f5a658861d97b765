package formats

import "github.com/Kuruyia/sinjoh/pkg/record"

// AreaDataSize is the size of an area data file (area_data.narc).
const AreaDataSize = 8

// AreaData links a group of maps to its map prop, texture and light
// archives.
type AreaData struct {
	// MapPropArchivesID indexes both area_build.narc and areabm_texset.narc.
	MapPropArchivesID uint16
	// MapTextureArchiveID indexes map_tex_set.narc.
	MapTextureArchiveID uint16
	// AreaLightArchiveID indexes arealight.narc.
	AreaLightArchiveID uint16
	// Dummy varies between files but is never read by the game.
	Dummy uint16
}

// AreaDataFromBytes decodes a fixed-size area data record.
func AreaDataFromBytes(b [AreaDataSize]byte) (AreaData, error) {
	a, err := ParseAreaData(b[:])
	if err != nil {
		return AreaData{}, err
	}
	return *a, nil
}

// ParseAreaData parses an area data file. Bytes past the record are ignored.
func ParseAreaData(data []byte) (*AreaData, error) {
	r := record.NewReader("area data", data)
	a := AreaData{
		MapPropArchivesID:   r.U16("map prop archives id"),
		MapTextureArchiveID: r.U16("map texture archive id"),
		Dummy:               r.U16("dummy"),
		AreaLightArchiveID:  r.U16("area light archive id"),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &a, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *AreaData) UnmarshalBinary(data []byte) error {
	v, err := ParseAreaData(data)
	if err != nil {
		return err
	}
	*a = *v
	return nil
}
