package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parkgate/internal/credential/service"
	"parkgate/internal/transport/http/shared"
	dErrors "parkgate/pkg/domain-errors"
)

// Service defines the interface for credential exchange.
type Service interface {
	Authenticate(ctx context.Context, username, secret string) (*service.TokenResult, error)
}

// Handler wires the token endpoint to the credential service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the token endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/token", h.HandleToken)
}

// HandleToken exchanges an operating credential for a bearer token.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[TokenRequest](w, r)
	if !ok {
		return
	}
	result, err := h.service.Authenticate(r.Context(), req.Username, req.Secret)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

// TokenRequest is the HTTP request body for POST /auth/token.
type TokenRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

func (r *TokenRequest) Validate() error {
	if r.Username == "" || r.Secret == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "username and secret are required")
	}
	return nil
}
