// Package memory provides an in-process implementation of the persistence
// contracts. It backs tests and local development, and it honors the same
// uniqueness guarantee the PostgreSQL store enforces with its unique index:
// a duplicate canonical email is rejected with the same conflict error.
package memory

import (
	"context"
	"sync"
	"time"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"

	"github.com/google/uuid"
)

// userRepository is a mutex-guarded map-backed user store.
type userRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]entity.User
	byEmail map[string]uuid.UUID
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[uuid.UUID]entity.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

// FindByEmail retrieves a single user by email, case-insensitively.
func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user := repo.byID[id]

	return &user, nil
}

// Create persists a new user. The email index is checked and written under
// one lock, so concurrent creations with the same email serialize here the
// way they serialize on the database's unique index.
func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := entity.NormalizeEmail(user.Email)
	if _, exists := repo.byEmail[key]; exists {
		return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	repo.byID[user.ID] = *user
	repo.byEmail[key] = user.ID

	return nil
}

// Update modifies an existing user, re-checking email uniqueness against
// every record but the user's own.
func (repo *userRepository) Update(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.byID[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	key := entity.NormalizeEmail(user.Email)
	if ownerID, exists := repo.byEmail[key]; exists && ownerID != user.ID {
		return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
	}

	delete(repo.byEmail, entity.NormalizeEmail(stored.Email))
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()

	repo.byID[user.ID] = *user
	repo.byEmail[key] = user.ID

	return nil
}
