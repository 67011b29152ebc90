package repomanager

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Users returns
// the same store on every call.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
