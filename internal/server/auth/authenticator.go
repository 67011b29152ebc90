package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
)

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator resolves an access token to the stored user it was issued
// for. A token whose subject no longer exists is rejected.
type Authenticator struct {
	tokens *TokenManager
	users  userFinder
}

func NewAuthenticator(tokens *TokenManager, users userFinder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// BearerToken extracts the token from an "authorization" header value of the
// form "Bearer <token>". The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
