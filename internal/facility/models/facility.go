package models

import (
	"time"

	dErrors "parkgate/pkg/domain-errors"
)

// Facility is a parking lot with a fixed capacity and a live available-slot
// counter.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Capacity is positive
//   - 0 <= Available <= Capacity
//
// Available is mutated only by transit opens (decrement) and closes
// (increment); it is never set directly by API callers.
type Facility struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFull reports whether no slot is free.
func (f *Facility) IsFull() bool {
	return f.Available <= 0
}

func NewFacility(name string, capacity int, now time.Time) (*Facility, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "facility name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "facility name must be 128 characters or less")
	}
	if capacity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "facility capacity must be positive")
	}
	return &Facility{
		Name:      name,
		Capacity:  capacity,
		Available: capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
