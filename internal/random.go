package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"strconv"
)

const (
	minCodeDigits = 4
	maxCodeDigits = 9
)

var ErrInvalidCodeDigits = errors.New("invalid login code digits")

// NewLoginCode returns a fixed-width decimal code drawn uniformly from
// [10^(digits-1), 10^digits - 1], so the leading digit is never zero.
func NewLoginCode(digits int) (string, error) {
	if digits < minCodeDigits || digits > maxCodeDigits {
		return "", ErrInvalidCodeDigits
	}

	low := pow10(digits - 1)
	span := big.NewInt(pow10(digits) - low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+low, 10), nil
}

// NewToken returns size random bytes encoded as base64url without padding.
func NewToken(size int) (string, error) {
	if size <= 0 {
		return "", errors.New("invalid token size")
	}
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func pow10(n int) int64 {
	out := int64(1)
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
