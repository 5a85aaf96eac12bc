package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parkgate/internal/credential/models"
	"parkgate/internal/credential/secrets"
	"parkgate/internal/platform/middleware"
	"parkgate/internal/token"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

// AccessTokenTTL is how long a gate access token stays valid.
const AccessTokenTTL = 1 * time.Hour

type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.OperatingCredential, error)
}

// Service exchanges an operating credential for a gate access token.
type Service struct {
	credentials CredentialStore
	tokens      *token.Service
	logger      *slog.Logger
}

func New(credentials CredentialStore, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{credentials: credentials, tokens: tokens, logger: logger}
}

// TokenResult carries a minted access token and its lifetime in seconds.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Authenticate verifies a credential pair and mints an access token. Unknown
// usernames and bad secrets produce the same error so callers cannot probe
// which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, secret string) (*TokenResult, error) {
	if username == "" || secret == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username and secret are required")
	}

	cred, err := s.credentials.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}

	if err := secrets.Verify(secret, cred.SecretHash); err != nil {
		s.logger.WarnContext(ctx, "credential rejected",
			"event", "auth_failed",
			"username", username,
			"request_id", middleware.GetRequestID(ctx),
		)
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(cred.GateID, cred.Username, cred.Role, AccessTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign access token")
	}

	s.logger.InfoContext(ctx, "access token issued",
		"event", "token_issued",
		"gate_id", cred.GateID,
		"username", cred.Username,
		"request_id", middleware.GetRequestID(ctx),
	)
	return &TokenResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenTTL.Seconds()),
	}, nil
}
