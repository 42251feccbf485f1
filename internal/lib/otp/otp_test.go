package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestHashAndCompare(t *testing.T) {
	code, err := GenerateCode(6)
	require.NoError(t, err)

	hash, err := GetHash(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.NoError(t, CompareHash(hash, code))
	assert.Error(t, CompareHash(hash, "000000"))
}
