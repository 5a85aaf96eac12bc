package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "parkgate/pkg/domain-errors"
)

func TestGenerateProducesDistinctSecrets(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestHashAndVerify(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)

	hash, err := Hash(secret)
	require.NoError(t, err)
	assert.NotEqual(t, secret, hash)

	assert.NoError(t, Verify(secret, hash))

	err = Verify("wrong-secret", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsEmptySecret(t *testing.T) {
	_, err := Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
