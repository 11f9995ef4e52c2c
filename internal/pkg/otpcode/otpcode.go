package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in every issued code.
const Length = 6

var upper = big.NewInt(1_000_000)

// Generate returns a uniformly random 6-digit code in [000000, 999999].
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Valid reports whether s has the shape of an issued code.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
