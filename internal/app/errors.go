package service

import "errors"

// ErrNotStarted is returned when a prediction arrives before Start.
var ErrNotStarted = errors.New("service not started")
