package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrConflict: entity already exists or conflicts with stored state
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (malformed records, unmapped template tuples), use the
// typed errors in internal/notices/models directly.
var (
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
