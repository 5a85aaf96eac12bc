package token

import (
	"parkgate/internal/platform/middleware"
)

// MiddlewareAdapter exposes the token service through the auth middleware's
// validator contract.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.GateClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.GateClaims{
		GateID:   claims.GateID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
