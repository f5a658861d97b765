package formats

import "github.com/Kuruyia/sinjoh/pkg/record"

// Map prop animation list layout (bm_anime_list.narc).
const (
	MapPropAnimationListSize = 20

	FlagDeferredLoading           = 0x01
	FlagDeferredAddToRenderObject = 0x02

	MaxMapPropAnimations = 4
	InvalidAnimationID   = 0xFFFFFFFF
)

// MapPropAnimationList describes the animations attached to a map prop.
type MapPropAnimationList struct {
	// AnimationIDs holds at most MaxMapPropAnimations ids.
	AnimationIDs []uint32

	DeferredLoading           bool
	DeferredAddToRenderObject bool
	IsBicycleSlope            bool
}

// MapPropAnimationListFromBytes decodes a fixed-size animation list.
func MapPropAnimationListFromBytes(b [MapPropAnimationListSize]byte) (MapPropAnimationList, error) {
	l, err := ParseMapPropAnimationList(b[:])
	if err != nil {
		return MapPropAnimationList{}, err
	}
	return *l, nil
}

// ParseMapPropAnimationList parses an animation list. The id list stops at
// the first InvalidAnimationID; bytes after it are not required.
func ParseMapPropAnimationList(data []byte) (*MapPropAnimationList, error) {
	r := record.NewReader("map prop animation list", data)

	// The leading "has animations" byte is redundant with the id list.
	r.Skip("has animations", 1)
	flags := r.U8("flags")
	l := MapPropAnimationList{
		DeferredLoading:           flags&FlagDeferredLoading != 0,
		DeferredAddToRenderObject: flags&FlagDeferredAddToRenderObject != 0,
		IsBicycleSlope:            r.Bool("bicycle slope"),
	}
	r.Skip("dummy", 1)

	for range MaxMapPropAnimations {
		id := r.U32("animation id")
		if r.Err() != nil || id == InvalidAnimationID {
			break
		}
		l.AnimationIDs = append(l.AnimationIDs, id)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	return &l, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (l *MapPropAnimationList) UnmarshalBinary(data []byte) error {
	v, err := ParseMapPropAnimationList(data)
	if err != nil {
		return err
	}
	*l = *v
	return nil
}
