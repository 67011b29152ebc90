// Package users is the credential store. Every implementation enforces email
// uniqueness itself, reports a duplicate as common.ErrorAlreadyExists and a
// missing row as common.ErrorNotFound. Emails are compared exactly.
package users

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts user, assigning ID and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindAllWithBiometricKey returns every enrolled user, oldest first.
	FindAllWithBiometricKey(ctx context.Context) ([]*models.User, error)
}

// newID is a seam for tests.
var newID = uuid.NewString
