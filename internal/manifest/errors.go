package manifest

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error kinds. Every error returned by the indexer, the materializer and the
// store helpers matches at most one of these with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrCorruptManifest  = errors.New("corrupt manifest")
)

var errUnknownTemplate = errors.New("no such template in manifest store")

// PathError records the operation and path behind a filesystem failure along
// with its kind. Both the kind and the underlying cause are reachable through
// errors.Is and errors.As.
type PathError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// Classify wraps err in a *PathError whose Kind is derived from the io/fs
// sentinel it matches. It returns nil for a nil err.
func Classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Kind: kindOf(err), Op: op, Path: path, Err: err}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return nil
	}
}

// corruptf builds an ErrCorruptManifest error.
func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptManifest, fmt.Sprintf(format, args...))
}
