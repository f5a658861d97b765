package formats

import (
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/nds"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// Land data layout (land_data.narc).
const (
	LandDataHeaderSize   = 16
	TerrainAttributeSize = 2
	MapPropInstanceSize  = 48

	TileBehaviorMask  = 0x00FF
	TileCollisionMask = 0x8000

	TilesX    = 32
	TilesY    = 32
	TileCount = TilesX * TilesY
)

// TerrainAttributes describes one tile of a map.
type TerrainAttributes struct {
	TileBehavior uint16
	HasCollision bool
}

// TerrainAttributesFromRaw unpacks a raw tile attribute word.
func TerrainAttributesFromRaw(raw uint16) TerrainAttributes {
	return TerrainAttributes{
		TileBehavior: raw & TileBehaviorMask,
		HasCollision: raw&TileCollisionMask != 0,
	}
}

// MapPropInstance places a map prop model on a map.
type MapPropInstance struct {
	ModelID  uint32
	Position nds.Vec3Fx32
	Rotation nds.Vec3Fx32
	Scale    nds.Vec3Fx32
	Dummy    [2]uint32
}

// MapPropInstanceFromBytes decodes one fixed-size map prop instance.
func MapPropInstanceFromBytes(b [MapPropInstanceSize]byte) (MapPropInstance, error) {
	r := record.NewReader("map prop instance", b[:])
	p := readMapPropInstance(r)
	if err := r.Err(); err != nil {
		return MapPropInstance{}, err
	}
	return p, nil
}

func readMapPropInstance(r *record.Reader) MapPropInstance {
	return MapPropInstance{
		ModelID:  r.U32("map prop model id"),
		Position: r.Vec3Fx32("map prop position"),
		Rotation: r.Vec3Fx32("map prop rotation"),
		Scale:    r.Vec3Fx32("map prop scale"),
		Dummy:    [2]uint32{r.U32("map prop dummy"), r.U32("map prop dummy")},
	}
}

// LandData is one map chunk: tile attributes, placed props, the raw map
// model and the terrain height data.
type LandData struct {
	TerrainAttributes []TerrainAttributes
	MapProps          []MapPropInstance
	// MapModel is the undecoded NSBMD model of the map.
	MapModel []byte
	BDHC     BDHC
}

// ParseLandData parses a land data file. Each section is located by the
// sizes in the header; a section's trailing bytes that do not form a whole
// element are skipped.
func ParseLandData(data []byte) (*LandData, error) {
	r := record.NewReader("land data", data)

	terrainSize := int(r.U32("terrain attributes size"))
	propsSize := int(r.U32("map props size"))
	modelSize := int(r.U32("map model size"))
	bdhcSize := int(r.U32("bdhc size"))
	if r.Err() != nil {
		return nil, r.Err()
	}

	var l LandData

	start := r.Offset()
	if !r.Need("terrain attributes", terrainSize) {
		return nil, r.Err()
	}
	l.TerrainAttributes = make([]TerrainAttributes, terrainSize/TerrainAttributeSize)
	for i := range l.TerrainAttributes {
		l.TerrainAttributes[i] = TerrainAttributesFromRaw(r.U16("terrain attribute"))
	}
	r.Seek("map props", start+terrainSize)

	start = r.Offset()
	if !r.Need("map props", propsSize) {
		return nil, r.Err()
	}
	l.MapProps = make([]MapPropInstance, propsSize/MapPropInstanceSize)
	for i := range l.MapProps {
		l.MapProps[i] = readMapPropInstance(r)
	}
	r.Seek("map model", start+propsSize)

	l.MapModel = r.Bytes("map model", modelSize)

	bdhcStart := r.Offset()
	raw := r.View("bdhc", bdhcSize)
	if r.Err() != nil {
		return nil, r.Err()
	}
	bdhc, err := ParseBDHC(raw)
	if err != nil {
		r.Seek("bdhc", bdhcStart)
		return nil, r.Fail("bdhc", err)
	}
	l.BDHC = *bdhc

	return &l, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (l *LandData) UnmarshalBinary(data []byte) error {
	v, err := ParseLandData(data)
	if err != nil {
		return err
	}
	*l = *v
	return nil
}

// TileIndexToCoords converts a tile index to its (x, y) position on the
// 32x32 tile grid of a map.
func TileIndexToCoords(index int) (x, y int, err error) {
	if index < 0 || index >= TileCount {
		return 0, 0, fmt.Errorf("%w: tile index %d, map has %d tiles", record.ErrOutOfRange, index, TileCount)
	}
	return index % TilesX, index / TilesX, nil
}
