package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tokenPrefix   = "SES-"
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength   = 9
)

// NewToken returns an opaque session token of the form SES-XXXXXXXXX drawn
// from a cryptographically strong source.
func NewToken() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))

	buf := make([]byte, tokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate session token: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}

	return tokenPrefix + string(buf), nil
}
