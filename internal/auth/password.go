package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 65536
	hashKeyLen     = 16
	saltLen        = 16
)

// GenerateSalt returns a fresh 16-byte random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives a PBKDF2-HMAC-SHA1 key from the password and salt.
func HashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLen, sha1.New)
}

// VerifyPassword reports whether the password matches the stored hash,
// comparing in constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
