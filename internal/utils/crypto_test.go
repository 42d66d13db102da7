package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPin(t *testing.T) {
	hash, err := HashPin("4821")
	require.NoError(t, err)
	assert.NotEqual(t, "4821", hash)

	assert.True(t, VerifyPin("4821", hash))
	assert.False(t, VerifyPin("4822", hash))
	assert.False(t, VerifyPin("4821", "not-base64!!"))
	assert.False(t, VerifyPin("4821", ""))

	// Same PIN hashes differently per salt.
	other, err := HashPin("4821")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
	assert.True(t, VerifyPin("4821", other))
}
