// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for salted password hashing and
// verification. The salt is explicit because it is persisted on the user
// record alongside the digest; the concrete algorithm stays behind this
// interface so the domain remains pure.
//
// Encrypt and Matches never fail for well-formed inputs. A malformed salt
// or digest is a programming error, not a user-facing condition.
type PasswordHasher interface {
	// GenerateSalt produces a cryptographically random per-user salt.
	GenerateSalt() (string, error)

	// Encrypt derives the stored digest from a plaintext password and a
	// salt. Same inputs always yield the same digest; different salts
	// yield different digests for the same password.
	Encrypt(password, salt string) string

	// Matches recomputes the digest for the candidate password and
	// compares it to the stored one in constant time.
	Matches(password, salt, digest string) bool
}
