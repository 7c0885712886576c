package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrMalformedArtifact = errors.New("malformed model artifact")
	ErrUnsupportedKind   = errors.New("unsupported model kind")
	ErrVectorShape       = errors.New("malformed input vector")
	ErrTreeWalk          = errors.New("invalid decision tree")
)
