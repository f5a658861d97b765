package record

import (
	"errors"
	"fmt"

	"github.com/Kuruyia/sinjoh/pkg/nds"
)

// Record decoding errors.
var (
	ErrTooShort     = errors.New("input too short")
	ErrInvalidValue = errors.New("invalid value")
	ErrOutOfRange   = nds.ErrOutOfRange
)

// Error locates a decoding failure inside a record.
type Error struct {
	Record string // record type, e.g. "land data"
	Field  string // field being decoded when the failure happened
	Offset int    // byte offset of the field within the record buffer
	Err    error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: at offset %d: %v", e.Record, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %s at offset %d: %v", e.Record, e.Field, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
