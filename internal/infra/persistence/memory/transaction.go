package memory

import (
	"context"

	"identity/internal/domain/repository"
)

// transactionManager satisfies the TransactionManager contract without real
// transactions: the store itself serializes each operation under its lock,
// which is enough for the single-write flows the use cases run.
type transactionManager struct {
	users repository.UserRepository
}

// repositoryFactory hands out the shared in-memory repositories.
type repositoryFactory struct {
	users repository.UserRepository
}

// NewUserRepository returns the shared in-memory user repository.
func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return f.users
}

// NewTransactionManager is the constructor for the in-memory transaction manager.
func NewTransactionManager(users repository.UserRepository) repository.TransactionManager {
	return &transactionManager{users: users}
}

// Execute runs the function against the shared repositories directly.
func (tm *transactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(&repositoryFactory{users: tm.users})
}
