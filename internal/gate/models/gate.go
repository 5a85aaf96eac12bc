package models

import (
	"time"

	dErrors "parkgate/pkg/domain-errors"
)

// Direction is a gate's declared capability.
type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

func (d Direction) Valid() bool {
	return d == DirectionEntry || d == DirectionExit
}

// Gate is a physical entry/exit point belonging to exactly one facility.
//
// Invariants:
//   - FacilityID references an existing facility at creation time
//   - Direction is immutable after creation
//
// A bidirectional gate may serve both directions regardless of its declared
// capability.
type Gate struct {
	ID            int64     `json:"id"`
	Direction     Direction `json:"direction"`
	Bidirectional bool      `json:"bidirectional"`
	FacilityID    int64     `json:"facility_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanEnter reports whether a vehicle may enter through this gate.
func (g *Gate) CanEnter() bool {
	return g.Direction == DirectionEntry || g.Bidirectional
}

// CanExit reports whether a vehicle may exit through this gate.
func (g *Gate) CanExit() bool {
	return g.Direction == DirectionExit || g.Bidirectional
}

func NewGate(direction Direction, bidirectional bool, facilityID int64, now time.Time) (*Gate, error) {
	if !direction.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid gate direction %q", direction)
	}
	if facilityID <= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedID, "facility id must be positive")
	}
	return &Gate{
		Direction:     direction,
		Bidirectional: bidirectional,
		FacilityID:    facilityID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
