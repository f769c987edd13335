package forecast

import "errors"

// ErrModelLoad marks a model artifact that is missing, corrupt or
// incompatible with the encoder (feature count mismatch, unknown kind).
var ErrModelLoad = errors.New("model load failed")
