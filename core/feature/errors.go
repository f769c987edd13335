package feature

import "errors"

// ErrInvalidInput marks scenario values outside the physically
// plausible range (negative precipitation, non-finite numbers, an
// inverted temperature range or a missing date).
var ErrInvalidInput = errors.New("invalid scenario input")

// ErrSchemaMismatch marks a trained schema requesting a feature the
// encoder cannot derive from a scenario.
var ErrSchemaMismatch = errors.New("feature schema mismatch")
