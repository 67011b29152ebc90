package users

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	u, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	u, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = repo.FindByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_Duplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	bio := "b1"
	_, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h", BiometricKeyHash: &bio})
	require.NoError(t, err)

	u, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	u.PasswordHash = "tampered"
	*u.BiometricKeyHash = "tampered"

	again, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h", again.PasswordHash)
	assert.Equal(t, "b1", *again.BiometricKeyHash)
}

func TestMemoryRepository_FindAllWithBiometricKey(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	got, err := repo.FindAllWithBiometricKey(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	b1, b2 := "b1", "b2"
	_, _ = repo.Create(ctx, &models.User{Email: "1@x.com", PasswordHash: "h", BiometricKeyHash: &b1})
	_, _ = repo.Create(ctx, &models.User{Email: "2@x.com", PasswordHash: "h"})
	_, _ = repo.Create(ctx, &models.User{Email: "3@x.com", PasswordHash: "h", BiometricKeyHash: &b2})

	got, err = repo.FindAllWithBiometricKey(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1@x.com", got[0].Email)
	assert.Equal(t, "3@x.com", got[1].Email)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FindAllWithBiometricKey(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRepository_ConcurrentDuplicateRegistration(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.User{Email: "race@x.com", PasswordHash: fmt.Sprintf("h%d", i)})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, common.ErrorAlreadyExists)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}
