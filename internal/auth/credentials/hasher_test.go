package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, version, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, HashVersionBcrypt, version)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery"))
	assert.Error(t, VerifyPassword(hash, "wrong password"))
}

func TestHashPasswordRejectsShortPasswords(t *testing.T) {
	_, _, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHashesAreSalted(t *testing.T) {
	first, _, err := HashPassword("same password")
	require.NoError(t, err)
	second, _, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
