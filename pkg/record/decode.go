package record

import (
	"encoding"
	"fmt"
	"iter"
)

// Unmarshaler is the pointer half of a record type T.
type Unmarshaler[T any] interface {
	*T
	encoding.BinaryUnmarshaler
}

// Decode decodes one record of type T from data.
func Decode[T any, PT Unmarshaler[T]](data []byte) (T, error) {
	var v T
	if err := PT(&v).UnmarshalBinary(data); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DecodeAll decodes every file of an archive into a record of type T. The
// first failure stops decoding and is annotated with the file index.
func DecodeAll[T any, PT Unmarshaler[T]](files iter.Seq2[int, []byte]) ([]T, error) {
	var out []T
	for i, data := range files {
		v, err := Decode[T, PT](data)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
