package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("0xABCdef", []string{"MODERATOR"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef", claims.CreatorID)
	assert.True(t, claims.HasRole("ADMIN", "MODERATOR"))
	assert.False(t, claims.HasRole("ADMIN"))

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, err := GenerateToken("0xabc", nil)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = ExtractSignature("abc")
	assert.Error(t, err)

	_, err = GenerateToken("", nil)
	assert.Error(t, err)
}
