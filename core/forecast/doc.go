// Package forecast loads a trained demand model artifact and applies
// it to encoded scenarios. The artifact is read once at startup and is
// immutable afterwards, so a Service is safe for concurrent use.
package forecast
