// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"identity/internal/domain/service"
	"identity/internal/errors"

	"golang.org/x/crypto/argon2"
)

// Argon2Params captures the tunable parameters for the Argon2id digest.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32 // bytes of randomness before hex encoding
	KeyLength   uint32 // digest length in bytes before hex encoding
}

// DefaultArgon2Params returns sane production defaults.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// argon2Hasher is a concrete implementation of the PasswordHasher interface
// using Argon2id with an explicit per-user salt. The salt is generated and
// persisted separately from the digest, so identical passwords across users
// never share a digest.
type argon2Hasher struct {
	params Argon2Params
}

// NewArgon2Hasher is the constructor for argon2Hasher with default parameters.
// It returns the implementation as a service.PasswordHasher interface.
func NewArgon2Hasher() service.PasswordHasher {
	return NewArgon2HasherWithParams(DefaultArgon2Params())
}

// NewArgon2HasherWithParams builds a hasher with explicit parameters.
// Lower costs are useful in tests; production should keep the defaults.
func NewArgon2HasherWithParams(params Argon2Params) service.PasswordHasher {
	return &argon2Hasher{params: params}
}

// GenerateSalt produces a hex-encoded, cryptographically random salt.
func (h *argon2Hasher) GenerateSalt() (string, error) {
	raw := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	return hex.EncodeToString(raw), nil
}

// Encrypt derives the hex-encoded Argon2id digest of the password under the
// given salt. The computation is deterministic.
func (h *argon2Hasher) Encrypt(password, salt string) string {
	key := argon2.IDKey(
		[]byte(password),
		[]byte(salt),
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return hex.EncodeToString(key)
}

// Matches recomputes the digest and compares it to the stored one.
// The comparison is constant-time so it does not leak where a mismatch occurs.
func (h *argon2Hasher) Matches(password, salt, digest string) bool {
	computed := h.Encrypt(password, salt)

	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
