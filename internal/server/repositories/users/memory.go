package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
)

// MemoryRepository keeps users in process memory. It is meant for local runs
// and tests; data is lost on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
	order   []*models.User
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = newID()
	user.CreatedAt = r.now().UTC()

	stored := clone(user)
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored
	r.order = append(r.order, stored)

	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) FindAllWithBiometricKey(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0)
	for _, u := range r.order {
		if u.BiometricKeyHash != nil {
			result = append(result, clone(u))
		}
	}
	return result, nil
}

func clone(u *models.User) *models.User {
	c := *u
	if u.BiometricKeyHash != nil {
		v := *u.BiometricKeyHash
		c.BiometricKeyHash = &v
	}
	return &c
}
