// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new user.
// PasswordConfirmation must equal Password byte-for-byte.
type RegisterUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// AuthenticateInput defines the data required to authenticate by credentials.
type AuthenticateInput struct {
	Email    string
	Password string
}

// UpdateUserInput defines the data for updating an existing user. Leaving
// both password fields empty keeps the stored credentials untouched.
type UpdateUserInput struct {
	ID                   uuid.UUID
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// RegisterUser validates a candidate, derives its credentials and
	// persists it. Rule violations come back as a *validation.Error; a
	// duplicate email that raced past validation comes back as ErrEmailTaken.
	RegisterUser(ctx context.Context, input *RegisterUserInput) (*RegisterOutput, error)

	// Authenticate resolves (email, password) to a user. A nil user with a
	// nil error means no match; unknown email and wrong password yield the
	// same absent result.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*entity.User, error)

	// UpdateUser revalidates and persists changes to an existing user.
	// A non-empty password re-salts and re-hashes the stored digest.
	UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error)
}
