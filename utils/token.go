package utils

import (
	"crypto/rand"
	"encoding/hex"
)

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateShareToken creates the opaque identifier embedded in invite URLs.
func GenerateShareToken() (string, error) {
	return randomHex(9)
}

// GenerateManageToken creates the per-guest capability token that lets a
// guest edit their own RSVP. Possession is authorization; it never expires.
func GenerateManageToken() (string, error) {
	return randomHex(12)
}
