package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/service"
	"identity/internal/domain/validation"
	"identity/internal/infra/auth"
	"identity/internal/infra/persistence/memory"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) usecase.UserUsecase {
	t.Helper()

	users := memory.NewUserRepository()
	hasher := auth.NewArgon2HasherWithParams(auth.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewUserService(memory.NewTransactionManager(users), hasher, logger)
}

func registerInput() *usecase.RegisterUserInput {
	return &usecase.RegisterUserInput{
		Name:                 "Example User",
		Email:                "user@example.com",
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	}
}

func TestUserService_RegisterUser(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	output, err := srv.RegisterUser(ctx, registerInput())
	require.NoError(t, err)
	require.NotNil(t, output.User)

	user := output.User
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Example User", user.Name)
	assert.Equal(t, "user@example.com", user.Email)
	assert.NotEmpty(t, user.Salt)
	assert.NotEmpty(t, user.EncryptedPassword)
	assert.NotEqual(t, "foobar", user.EncryptedPassword)
}

func TestUserService_RegisterUserNormalizesEmail(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	input := registerInput()
	input.Email = "  USER@Example.COM "

	output, err := srv.RegisterUser(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", output.User.Email)
}

func TestUserService_RegisterUserValidationFailure(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	input := registerInput()
	input.Name = ""
	input.Password = "short"
	input.PasswordConfirmation = "short"

	output, err := srv.RegisterUser(ctx, input)
	assert.Nil(t, output)
	require.Error(t, err)

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Violations().Has(validation.RuleNameBlank))
	assert.True(t, vErr.Violations().Has(validation.RulePasswordTooShort))
}

func TestUserService_RegisterUserDuplicateEmail(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	_, err := srv.RegisterUser(ctx, registerInput())
	require.NoError(t, err)

	// Duplicate up to case is still a conflict.
	input := registerInput()
	input.Name = "Other User"
	input.Email = "USER@EXAMPLE.COM"

	output, err := srv.RegisterUser(ctx, input)
	assert.Nil(t, output)
	require.Error(t, err)

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Violations().Has(validation.RuleEmailTaken))
}

func TestUserService_Authenticate(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	registered, err := srv.RegisterUser(ctx, registerInput())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "user@example.com",
			Password: "foobar",
		})
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.True(t, user.Equal(registered.User))
	})

	t.Run("email case does not matter", func(t *testing.T) {
		user, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "USER@EXAMPLE.COM",
			Password: "foobar",
		})
		require.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("wrong password", func(t *testing.T) {
		user, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "user@example.com",
			Password: "wrongpass",
		})
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown email", func(t *testing.T) {
		user, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "nobody@example.com",
			Password: "foobar",
		})
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	registered, err := srv.RegisterUser(ctx, registerInput())
	require.NoError(t, err)

	t.Run("profile change keeps credentials", func(t *testing.T) {
		updated, err := srv.UpdateUser(ctx, &usecase.UpdateUserInput{
			ID:    registered.User.ID,
			Name:  "Renamed User",
			Email: "renamed@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed User", updated.Name)
		assert.Equal(t, "renamed@example.com", updated.Email)
		assert.Equal(t, registered.User.Salt, updated.Salt)
		assert.Equal(t, registered.User.EncryptedPassword, updated.EncryptedPassword)

		// The old password still authenticates against the new email.
		user, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "renamed@example.com",
			Password: "foobar",
		})
		require.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("password change re-salts and re-hashes", func(t *testing.T) {
		updated, err := srv.UpdateUser(ctx, &usecase.UpdateUserInput{
			ID:                   registered.User.ID,
			Name:                 "Renamed User",
			Email:                "renamed@example.com",
			Password:             "newsecret",
			PasswordConfirmation: "newsecret",
		})
		require.NoError(t, err)
		assert.NotEqual(t, registered.User.Salt, updated.Salt)
		assert.NotEqual(t, registered.User.EncryptedPassword, updated.EncryptedPassword)

		user, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "renamed@example.com",
			Password: "newsecret",
		})
		require.NoError(t, err)
		assert.NotNil(t, user)

		stale, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{
			Email:    "renamed@example.com",
			Password: "foobar",
		})
		require.NoError(t, err)
		assert.Nil(t, stale)
	})
}

func TestUserService_UpdateUserUnknownID(t *testing.T) {
	srv := newTestService(t)

	updated, err := srv.UpdateUser(context.Background(), &usecase.UpdateUserInput{
		ID:    uuid.New(),
		Name:  "Example User",
		Email: "user@example.com",
	})
	assert.Nil(t, updated)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrUserNotFound.ErrorCode(), appErr.ErrorCode())
}

func TestUserService_UpdateUserEmailConflict(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	first, err := srv.RegisterUser(ctx, registerInput())
	require.NoError(t, err)

	other := registerInput()
	other.Name = "Other User"
	other.Email = "other@example.com"
	_, err = srv.RegisterUser(ctx, other)
	require.NoError(t, err)

	updated, err := srv.UpdateUser(ctx, &usecase.UpdateUserInput{
		ID:    first.User.ID,
		Name:  "Example User",
		Email: "other@example.com",
	})
	assert.Nil(t, updated)
	require.Error(t, err)

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Violations().Has(validation.RuleEmailTaken))
}

// failingSaltHasher simulates an entropy source failure.
type failingSaltHasher struct{}

func (failingSaltHasher) GenerateSalt() (string, error) {
	return "", errors.New("entropy exhausted")
}

func (failingSaltHasher) Encrypt(_, _ string) string { return "" }

func (failingSaltHasher) Matches(_, _, _ string) bool { return false }

var _ service.PasswordHasher = failingSaltHasher{}

func TestUserService_RegisterUserSaltFailure(t *testing.T) {
	users := memory.NewUserRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewUserService(memory.NewTransactionManager(users), failingSaltHasher{}, logger)

	output, err := srv.RegisterUser(context.Background(), registerInput())
	assert.Nil(t, output)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrPasswordHashFailed.ErrorCode(), appErr.ErrorCode())

	// Nothing was persisted.
	_, findErr := users.FindByEmail(context.Background(), "user@example.com")
	assert.Error(t, findErr)
}
