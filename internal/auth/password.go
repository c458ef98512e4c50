package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters (OWASP-recommended).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonSaltLen = 16
	argonKeyLen  = 32
)

// PasswordHasher produces and verifies salted argon2id password digests.
// The salt and digest are kept as separate base64 strings so they can be
// stored in separate columns.
type PasswordHasher struct{}

// NewPasswordHasher creates a new PasswordHasher.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash generates a fresh random salt and returns it together with the
// digest of the password under that salt.
func (h *PasswordHasher) Hash(password string) (salt, digest string, err error) {
	raw := make([]byte, argonSaltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = base64.RawStdEncoding.EncodeToString(raw)
	digest, err = h.HashWithSalt(password, salt)
	if err != nil {
		return "", "", err
	}
	return salt, digest, nil
}

// HashWithSalt recomputes the digest of the password under a previously
// generated salt. The result is deterministic for a given (password, salt)
// pair.
func (h *PasswordHasher) HashWithSalt(password, salt string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt encoding: %w", err)
	}
	key := argon2.IDKey([]byte(password), raw, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify reports whether password hashes to expectedDigest under salt.
// The comparison runs in constant time. A malformed salt or digest simply
// fails verification.
func (h *PasswordHasher) Verify(password, salt, expectedDigest string) bool {
	computed, err := h.HashWithSalt(password, salt)
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(expectedDigest)
	if err != nil {
		return false
	}
	got, _ := base64.RawStdEncoding.DecodeString(computed)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
