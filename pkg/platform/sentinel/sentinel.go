package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about stored resources, not validation
// failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: write would violate a uniqueness guarantee
// - ErrInvalidState: entity in wrong lifecycle state for requested operation
// - ErrCapacityExhausted: facility slot counter is already at zero
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrCapacityExhausted = errors.New("capacity exhausted")
)
