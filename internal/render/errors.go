package render

import (
	"errors"
	"fmt"
)

var (
	ErrNotPNG       = errors.New("not a PNG stream")
	ErrCorruptChunk = errors.New("corrupt PNG chunk")
	ErrNoOutputPath = errors.New("no output path")
)

// ImageWriteError reports that the fallback image could not be encoded or
// persisted. Callers treat it as cosmetic.
type ImageWriteError struct {
	Path    string
	Wrapped error
}

func (e *ImageWriteError) Error() string {
	return fmt.Sprintf("write image %s: %v", e.Path, e.Wrapped)
}

func (e *ImageWriteError) Unwrap() error {
	return e.Wrapped
}
