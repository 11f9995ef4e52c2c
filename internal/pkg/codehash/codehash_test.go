package codehash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum_Deterministic(t *testing.T) {
	h := New("pepper")
	assert.Equal(t, h.Sum("+15551234567", "123456"), h.Sum("+15551234567", "123456"))
	assert.Len(t, h.Sum("+15551234567", "123456"), 64)
}

func TestSum_BindsPhoneAndCode(t *testing.T) {
	h := New("pepper")
	base := h.Sum("+15551234567", "123456")
	assert.NotEqual(t, base, h.Sum("+15551234568", "123456"))
	assert.NotEqual(t, base, h.Sum("+15551234567", "123457"))
}

func TestSum_KeyMatters(t *testing.T) {
	assert.NotEqual(t, New("a").Sum("5551234567", "000000"), New("b").Sum("5551234567", "000000"))
	assert.NotEqual(t, New("").Sum("5551234567", "000000"), New("a").Sum("5551234567", "000000"))
}

func TestNew_LongKeyTruncated(t *testing.T) {
	long := strings.Repeat("k", 100)
	assert.Equal(t, New(long).Sum("5551234567", "000000"), New(long[:64]).Sum("5551234567", "000000"))
}
