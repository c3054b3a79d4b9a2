package utils

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// EventCodeLength is the length of generated public event codes.
const EventCodeLength = 6

// eventCodeAlphabet omits 0/O and 1/I so codes survive being read aloud
// or retyped from a projected QR slide.
const eventCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateEventCode returns a short random code for public check-in URLs.
// Uniqueness is enforced by the database index; callers retry on collision.
func GenerateEventCode() (string, error) {
	code := make([]byte, EventCodeLength)
	max := big.NewInt(int64(len(eventCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = eventCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

// HashAccessCode hashes an admin access code for storage in configuration
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckAccessCode compares a submitted access code against the configured hash
func CheckAccessCode(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
