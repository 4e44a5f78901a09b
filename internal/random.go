package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	confirmationCodeLength = 12
	confirmationRandBytes  = 9
)

// NewConfirmationCode returns a 12-character alphanumeric code derived from
// cryptographically random bytes. Each 9-byte draw is base64 encoded and
// filtered down to alphanumerics; draws repeat until enough characters
// survive the filter.
func NewConfirmationCode() (string, error) {
	code := make([]byte, 0, confirmationCodeLength)

	for len(code) < confirmationCodeLength {
		raw := make([]byte, confirmationRandBytes)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}

		encoded := base64.StdEncoding.EncodeToString(raw)
		for i := 0; i < len(encoded) && len(code) < confirmationCodeLength; i++ {
			c := encoded[i]
			if isAlphanumeric(c) {
				code = append(code, c)
			}
		}
	}

	return string(code), nil
}

func isAlphanumeric(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return false
}
