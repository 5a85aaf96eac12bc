package handler

import (
	"parkgate/internal/gate/models"
	dErrors "parkgate/pkg/domain-errors"
)

// CreateGateRequest is the HTTP request body for POST /gates.
type CreateGateRequest struct {
	Direction     string `json:"direction"`
	Bidirectional bool   `json:"bidirectional"`
	FacilityID    int64  `json:"facility_id"`
}

func (r *CreateGateRequest) Validate() error {
	if !models.Direction(r.Direction).Valid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "direction must be %q or %q", models.DirectionEntry, models.DirectionExit)
	}
	if r.FacilityID <= 0 {
		return dErrors.New(dErrors.CodeMalformedID, "facility_id must be a positive integer")
	}
	return nil
}

// UpdateGateRequest is the HTTP request body for PATCH /gates/{id}. Direction
// is deliberately absent: it is immutable after creation.
type UpdateGateRequest struct {
	Bidirectional *bool  `json:"bidirectional"`
	FacilityID    *int64 `json:"facility_id"`
}

func (r *UpdateGateRequest) Validate() error {
	if r.Bidirectional == nil && r.FacilityID == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "nothing to update")
	}
	if r.FacilityID != nil && *r.FacilityID <= 0 {
		return dErrors.New(dErrors.CodeMalformedID, "facility_id must be a positive integer")
	}
	return nil
}
