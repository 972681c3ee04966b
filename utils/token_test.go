package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShareToken(t *testing.T) {
	a, err := GenerateShareToken()
	require.NoError(t, err)
	b, err := GenerateShareToken()
	require.NoError(t, err)

	assert.Len(t, a, 18) // 9 random bytes, hex encoded
	assert.NotEqual(t, a, b)
}

func TestGenerateManageToken(t *testing.T) {
	a, err := GenerateManageToken()
	require.NoError(t, err)
	b, err := GenerateManageToken()
	require.NoError(t, err)

	assert.Len(t, a, 24) // 12 random bytes, hex encoded
	assert.NotEqual(t, a, b)
}
