package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator defines the interface for validating gate access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*GateClaims, error)
}

// GateClaims represents the claims we expect from the token validator.
type GateClaims struct {
	GateID   int64
	Username string
	Role     string
}

type contextKeyGateID struct{}
type contextKeyGateRole struct{}

// Context keys are exported for use in handlers and test helpers.
var (
	ContextKeyGateID   = contextKeyGateID{}
	ContextKeyGateRole = contextKeyGateRole{}
)

// GetGateID retrieves the authenticated gate ID from the context. Zero means
// no gate identity is attached.
func GetGateID(ctx context.Context) int64 {
	gateID, ok := ctx.Value(ContextKeyGateID).(int64)
	if !ok {
		return 0
	}
	return gateID
}

// RequireGateAuth validates the bearer token minted for a gate's operating
// credential and stores the gate identity in the request context.
func RequireGateAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "gate token rejected",
					"error", err.Error(),
					"request_id", GetRequestID(r.Context()),
				)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if claims.Role != "gate" {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyGateID, claims.GateID)
			ctx = context.WithValue(ctx, ContextKeyGateRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards administrative routes with a shared token header.
func RequireAdmin(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Admin-Token")
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
