// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/domain/validation"
	"identity/internal/usecase"

	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager: txManager,
		hasher:    hasher,
		logger:    logger,
	}
}

// RegisterUser orchestrates the complete user registration process: the full
// rule set runs first, then the salt and digest are derived exactly once,
// then the record is persisted. Only the digest and salt are stored; the
// plaintext never leaves this method.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	srv.logger.Info("Starting user registration", "email", entity.NormalizeEmail(input.Email))

	candidate := &entity.UserCandidate{
		Name:                 input.Name,
		Email:                input.Email,
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
	}

	var registeredUser *entity.User

	// Validation's uniqueness pre-check and the insert run inside one
	// transaction; the store's unique index still arbitrates creations
	// racing in other transactions.
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if err := validation.NewUserValidator(userRepo).ValidateCreate(ctx, candidate); err != nil {
			return err
		}

		salt, err := srv.hasher.GenerateSalt()
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to generate salt")
		}

		newUser := &entity.User{
			Name:              candidate.Name,
			Email:             entity.NormalizeEmail(candidate.Email),
			Salt:              salt,
			EncryptedPassword: srv.hasher.Encrypt(candidate.Password, salt),
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.WithStack(err)
		}
		registeredUser = newUser

		return nil
	})

	if err != nil {
		srv.logger.Warn("User registration failed", "error", err.Error())

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}
	srv.logger.Debug("User registered successfully", "userID", registeredUser.ID)

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Authenticate looks up a user by canonical email and verifies the password
// against the stored salt and digest. Both "unknown email" and "wrong
// password" yield the same absent result, never an error.
func (srv *userService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*entity.User, error) {
	var matched *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil
			}

			return errors.Wrap(err, "failed to find user by email")
		}

		if srv.hasher.Matches(input.Password, user.Salt, user.EncryptedPassword) {
			matched = user
		}

		return nil
	})

	if err != nil {
		srv.logger.Error("Authentication lookup failed", "error", err.Error())

		return nil, errors.Wrap(err, "failed to execute authentication lookup")
	}

	return matched, nil
}

// UpdateUser revalidates the candidate with the user's own record excluded
// from the uniqueness rule. A non-empty password regenerates the salt and
// digest; empty password fields leave the stored credentials untouched.
func (srv *userService) UpdateUser(ctx context.Context, input *usecase.UpdateUserInput) (*entity.User, error) {
	srv.logger.Info("Starting user update", "userID", input.ID)

	candidate := &entity.UserCandidate{
		Name:                 input.Name,
		Email:                input.Email,
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
	}

	var updatedUser *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("user update failed")
			}

			return errors.Wrap(err, "failed to find user by id")
		}

		if err := validation.NewUserValidator(userRepo).ValidateUpdate(ctx, candidate, user.ID); err != nil {
			return err
		}

		user.Name = candidate.Name
		user.Email = entity.NormalizeEmail(candidate.Email)

		if candidate.Password != "" {
			salt, err := srv.hasher.GenerateSalt()
			if err != nil {
				return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to generate salt")
			}
			user.Salt = salt
			user.EncryptedPassword = srv.hasher.Encrypt(candidate.Password, salt)
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.WithStack(err)
		}
		updatedUser = user

		return nil
	})

	if err != nil {
		srv.logger.Warn("User update failed", "userID", input.ID, "error", err.Error())

		return nil, errors.Wrap(err, "failed to execute user update transaction")
	}
	srv.logger.Debug("User updated successfully", "userID", updatedUser.ID)

	return updatedUser, nil
}
