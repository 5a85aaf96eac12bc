package handler

import (
	"strings"

	dErrors "parkgate/pkg/domain-errors"
)

// CreateFacilityRequest is the HTTP request body for POST /facilities.
type CreateFacilityRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (r *CreateFacilityRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if r.Capacity <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "capacity must be positive")
	}
	return nil
}

// UpdateFacilityRequest is the HTTP request body for PATCH /facilities/{id}.
// Nil fields are left unchanged.
type UpdateFacilityRequest struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity"`
}

func (r *UpdateFacilityRequest) Validate() error {
	if r.Name == nil && r.Capacity == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "nothing to update")
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "name must not be empty")
		}
		r.Name = &trimmed
	}
	if r.Capacity != nil && *r.Capacity <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "capacity must be positive")
	}
	return nil
}
