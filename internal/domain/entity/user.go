// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// Email is always stored in canonical form (trimmed, lower-cased), so the
// store's unique index on it is case-insensitive by construction.
type User struct {
	ID                uuid.UUID // The unique identifier for the user, assigned by the store at creation.
	Name              string    // The user's display name.
	Email             string    // Canonical email address, used as the login identifier.
	Salt              string    // Per-user random salt mixed into the password before hashing.
	EncryptedPassword string    // One-way digest of salt+password. Never recoverable to plaintext.
	CreatedAt         time.Time // Timestamp of when this user account was created.
	UpdatedAt         time.Time // Timestamp of the last modification to this user's data.
}

// Equal reports whether two users refer to the same persisted identity.
// Equality is defined by stored identity, not field-by-field comparison,
// so records with diverged mutable fields still compare equal.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}

	return u.ID == other.ID
}

// NormalizeEmail converts an email address to its canonical form for
// storage, lookup and uniqueness comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
