package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Verify(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.True(t, VerifyPassword(hash, "password"))
	assert.False(t, VerifyPassword(hash, "Password"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("admin")
	require.NoError(t, err)
	b, err := HashPassword("admin")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	}
	for _, h := range tests {
		assert.False(t, VerifyPassword(h, "password"), h)
	}
}
