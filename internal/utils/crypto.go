package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 200_000
	saltBytes        = 16
	keyBytes         = 32
)

// HashPin derives a salted PBKDF2 hash of the funding-link PIN. The salt is
// stored inline ahead of the derived key.
func HashPin(pin string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	dk := pbkdf2.Key([]byte(pin), salt, pbkdf2Iterations, keyBytes, sha256.New)
	return base64.StdEncoding.EncodeToString(append(salt, dk...)), nil
}

// VerifyPin checks a PIN against a stored hash in constant time.
func VerifyPin(pin, stored string) bool {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(raw) <= saltBytes {
		return false
	}
	salt, want := raw[:saltBytes], raw[saltBytes:]
	got := pbkdf2.Key([]byte(pin), salt, pbkdf2Iterations, len(want), sha256.New)
	return hmac.Equal(want, got)
}
