package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("user@example.com"))
	assert.Equal(t, "user@example.com", NormalizeEmail("USER@EXAMPLE.COM"))
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.Com\t"))
}

func TestUser_Equal(t *testing.T) {
	id := uuid.New()

	// Same identity with diverged mutable fields still compares equal.
	a := &User{ID: id, Name: "Example User", Email: "user@example.com"}
	b := &User{ID: id, Name: "Renamed User", Email: "user@example.com"}
	assert.True(t, a.Equal(b))

	c := &User{ID: uuid.New(), Name: "Example User", Email: "user@example.com"}
	assert.False(t, a.Equal(c))

	var nilUser *User
	assert.False(t, a.Equal(nil))
	assert.True(t, nilUser.Equal(nil))
}
