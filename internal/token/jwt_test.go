package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "parkgate/pkg/domain-errors"
)

var tokenService = NewService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)

const (
	gateID   = int64(7)
	username = "gate7"
	role     = "gate"
)

func Test_GenerateAccessToken(t *testing.T) {
	tok, err := tokenService.GenerateAccessToken(gateID, username, role, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := tokenService.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, gateID, claims.GateID)
	assert.Equal(t, username, claims.Username)
	assert.Equal(t, role, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := tokenService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	tok, err := tokenService.GenerateAccessToken(gateID, username, role, -time.Hour)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(tok)
	require.Error(t, err)
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewService("another-key", "test-issuer", "test-audience")
	tok, err := other.GenerateAccessToken(gateID, username, role, time.Hour)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(tok)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewService("test-signing-key", "another-issuer", "test-audience")
	tok, err := other.GenerateAccessToken(gateID, username, role, time.Hour)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(tok)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewService("test-signing-key", "test-issuer", "another-audience")
	tok, err := other.GenerateAccessToken(gateID, username, role, time.Hour)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(tok)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_MiddlewareAdapter(t *testing.T) {
	tok, err := tokenService.GenerateAccessToken(gateID, username, role, time.Hour)
	require.NoError(t, err)

	claims, err := NewMiddlewareAdapter(tokenService).ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, gateID, claims.GateID)
	assert.Equal(t, role, claims.Role)
}
