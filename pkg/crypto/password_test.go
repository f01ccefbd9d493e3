package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2secret")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2secret", hash)

	require.True(t, VerifyPassword(hash, "hunter2secret"))
	require.False(t, VerifyPassword(hash, "wrong-password"))
}
