package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a login code.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random zero-padded code of CodeLength digits.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
