package otpcode

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerate_Shape(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		assert.True(t, Valid(code))
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 200 draws from a million values: collisions are possible, a handful of distinct values is not.
	assert.Greater(t, len(seen), 150)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("000000"))
	assert.True(t, Valid("999999"))
	assert.False(t, Valid("12345"))
	assert.False(t, Valid("1234567"))
	assert.False(t, Valid("12a456"))
	assert.False(t, Valid("١٢٣٤٥٦"))
}
