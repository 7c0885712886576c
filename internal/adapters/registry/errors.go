package registry

import (
	"errors"
	"fmt"
)

// Sentinel kinds for registry errors.
var (
	ErrLoad            = errors.New("model load failed")
	ErrNotLoaded       = errors.New("model not loaded")
	ErrDiseaseMismatch = errors.New("artifact bound to another disease")
	ErrFeatureMismatch = errors.New("artifact features do not match schema")
	ErrLabelContract   = errors.New("artifact label contract is not binary 0/1")
)

// LoadError reports an artifact that could not be turned into a model handle.
// It matches ErrLoad with errors.Is.
type LoadError struct {
	Disease string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s model from %s: %v", e.Disease, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }
