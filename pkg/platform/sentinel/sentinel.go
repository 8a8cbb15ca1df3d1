package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Loaders, stores and sinks return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: a file, table or record does not exist
//   - ErrCorrupt: a persisted artifact exists but cannot be decoded
//   - ErrUnavailable: a backing service (redis, kafka, postgres) cannot be reached
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrCorrupt     = errors.New("corrupt")
	ErrUnavailable = errors.New("unavailable")
)
