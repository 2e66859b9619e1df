package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	keyLength        = 32
	saltBytes        = 16
)

// HashPassword derives a PBKDF2-SHA256 hash for the password. When salt
// is empty a new random one is generated. Both return values are hex.
func HashPassword(password, salt string) (hash string, usedSalt string, err error) {
	if salt == "" {
		raw := make([]byte, saltBytes)
		if _, err := rand.Read(raw); err != nil {
			return "", "", fmt.Errorf("failed to generate salt: %w", err)
		}
		salt = hex.EncodeToString(raw)
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, keyLength, sha256.New)
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword checks a plaintext password against a stored hash and
// salt using a constant-time comparison.
func VerifyPassword(password, storedHash, salt string) bool {
	hash, _, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hash), []byte(storedHash)) == 1
}
