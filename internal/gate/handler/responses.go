package handler

import (
	"parkgate/internal/gate/models"
	"parkgate/internal/gate/service"
)

// ProvisionResponse is the HTTP response body for POST /gates.
type ProvisionResponse struct {
	Gate       *models.Gate       `json:"gate"`
	Credential CredentialResponse `json:"credential"`
}

// CredentialResponse exposes the operating credential's identity and, at
// provisioning time only, its cleartext secret.
type CredentialResponse struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Secret   string `json:"secret"`
}

func FromProvisionResult(result *service.ProvisionResult) ProvisionResponse {
	return ProvisionResponse{
		Gate: result.Gate,
		Credential: CredentialResponse{
			Name:     result.Credential.Name,
			Username: result.Credential.Username,
			Role:     result.Credential.Role,
			Secret:   result.Secret,
		},
	}
}
