package disease

import "errors"

// ErrUnknownDisease is returned for keys outside the catalog.
var ErrUnknownDisease = errors.New("unknown disease")
