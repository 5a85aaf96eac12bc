package handler

import (
	"strings"
	"time"

	dErrors "parkgate/pkg/domain-errors"
)

// SensingRequest is the HTTP request body for the device endpoints. The
// observation timestamp is optional; an absent one means "now".
type SensingRequest struct {
	Plate      string `json:"plate"`
	ObservedAt string `json:"observed_at,omitempty"`

	observedAt time.Time
}

func (r *SensingRequest) Validate() error {
	if strings.TrimSpace(r.Plate) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "plate is required")
	}
	if r.ObservedAt != "" {
		t, err := time.Parse(time.RFC3339, r.ObservedAt)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "observed_at must be RFC 3339")
		}
		r.observedAt = t
	}
	return nil
}

// CloseRequest is the HTTP request body for POST /transits/{id}/close.
type CloseRequest struct {
	ExitGateID int64  `json:"exit_gate_id"`
	ObservedAt string `json:"observed_at,omitempty"`

	observedAt time.Time
}

func (r *CloseRequest) Validate() error {
	if r.ExitGateID <= 0 {
		return dErrors.New(dErrors.CodeMalformedID, "exit_gate_id must be a positive integer")
	}
	if r.ObservedAt != "" {
		t, err := time.Parse(time.RFC3339, r.ObservedAt)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "observed_at must be RFC 3339")
		}
		r.observedAt = t
	}
	return nil
}
