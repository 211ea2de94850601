package sequence

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySequenceFile is returned for a sequence file without content.
	ErrEmptySequenceFile = errors.New("empty sequence file")
	// ErrBadSequenceFile is returned for a sequence file that cannot be decoded.
	ErrBadSequenceFile = errors.New("bad sequence file")
)

// DocumentError is a failure to read or write a sequence document. It is
// fatal to a show run.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sequence: %v", e.Err)
	}
	return fmt.Sprintf("sequence %q: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func badFile(path string, cause error) error {
	if cause == nil {
		return &DocumentError{Path: path, Err: ErrBadSequenceFile}
	}
	return &DocumentError{Path: path, Err: fmt.Errorf("%w: %w", ErrBadSequenceFile, cause)}
}
