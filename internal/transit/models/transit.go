package models

import (
	"time"
)

// Status is a transit's lifecycle state. Closed is terminal; no transition
// leads back to open.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Transit is one vehicle's stay, from entry-gate sensing to exit-gate
// sensing. Exit fields, tariff and amount stay nil until the transit closes,
// and are written together in one durable update: a transit with an exit
// timestamp but no amount is not a valid observable state.
type Transit struct {
	ID          int64      `json:"id"`
	VehicleID   int64      `json:"vehicle_id"`
	EntryGateID int64      `json:"entry_gate_id"`
	EntryAt     time.Time  `json:"entry_at"`
	ExitGateID  *int64     `json:"exit_gate_id,omitempty"`
	ExitAt      *time.Time `json:"exit_at,omitempty"`
	TariffID    *int64     `json:"tariff_id,omitempty"`
	AmountCents *int64     `json:"amount_cents,omitempty"`
	Status      Status     `json:"status"`
	FacilityID  int64      `json:"facility_id"`
}

// IsOpen reports whether the transit still awaits its exit.
func (t *Transit) IsOpen() bool {
	return t.Status == StatusOpen
}

// Duration returns the stay length for a closed transit, zero otherwise.
func (t *Transit) Duration() time.Duration {
	if t.ExitAt == nil {
		return 0
	}
	return t.ExitAt.Sub(t.EntryAt)
}

// NewTransit opens a transit at an entry gate. Validation of the gate's
// capability happens in the service, which sees the gate record.
func NewTransit(vehicleID, entryGateID, facilityID int64, entryAt time.Time) *Transit {
	return &Transit{
		VehicleID:   vehicleID,
		EntryGateID: entryGateID,
		EntryAt:     entryAt,
		Status:      StatusOpen,
		FacilityID:  facilityID,
	}
}
