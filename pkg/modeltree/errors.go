package modeltree

import (
	"errors"
	"fmt"
)

// Model tree errors.
var (
	ErrBadMagic           = errors.New("invalid model tree magic: expected 'MTRE'")
	ErrUnsupportedVersion = errors.New("unsupported model tree version")
	ErrOutOfBounds        = errors.New("node out of bounds")
	ErrMisaligned         = errors.New("node offset not 4-byte aligned")
	ErrUnknownNodeKind    = errors.New("unknown node kind")
	ErrCycleDetected      = errors.New("cycle detected")
	ErrNodeLimit          = errors.New("node count limit exceeded")
)

// TreeError reports the source offset at which decoding failed.
type TreeError struct {
	Offset uint32
	Err    error
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("model tree: offset %#x: %v", e.Offset, e.Err)
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

func treeError(off uint32, err error) error {
	return &TreeError{Offset: off, Err: err}
}
