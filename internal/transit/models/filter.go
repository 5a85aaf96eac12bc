package models

import "time"

// Filter scopes closed-transit queries for statistics and export callers.
// Zero-value fields match everything.
type Filter struct {
	From       time.Time
	To         time.Time
	FacilityID *int64
	Plates     []string
}
