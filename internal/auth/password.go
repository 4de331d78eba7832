package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 100_000
	hashKeyLen     = 32
)

// HashPassword derives a PBKDF2-SHA256 hash and returns it as
// "salt:hexdigest". A fresh random salt is generated per call.
func HashPassword(password string) string {
	return hashWithSalt(password, uuid.NewString())
}

func hashWithSalt(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, hashKeyLen, sha256.New)
	return salt + ":" + hex.EncodeToString(key)
}

// VerifyPassword checks a password against a stored hash. Legacy records
// hold the plaintext PIN without a salt separator; those compare directly
// and the caller is expected to re-hash after a successful login.
func VerifyPassword(password, stored string) bool {
	if !strings.Contains(stored, ":") {
		return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
	}
	salt, _, _ := strings.Cut(stored, ":")
	rehashed := hashWithSalt(password, salt)
	return subtle.ConstantTimeCompare([]byte(rehashed), []byte(stored)) == 1
}

// IsHashed reports whether a stored credential is already in salt:hash form.
func IsHashed(stored string) bool {
	return strings.Contains(stored, ":") && len(stored) > 50
}
