package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these, optionally
// wrapped, and services translate them into domain errors:
//   - ErrNotFound: no record matches the lookup
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrUnavailable: the backing service could not be reached
//
// Input problems are not sentinels; they belong to the validation engine.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
