// Package auth issues and verifies the HS256 access tokens handed out after a
// successful registration or login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = time.Hour

// Claims carries the user's email next to the registered claims; Subject
// holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses access tokens with a single process-wide
// secret.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: jwt secret is empty", common.ErrSigningMisconfigured)
	}
	return &TokenManager{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a token for subject valid for TokenTTL from now.
func (m *TokenManager) Issue(subject, email string) (string, error) {
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSigningMisconfigured, err)
	}
	return signed, nil
}

// Parse verifies signature and expiry. Expired tokens yield
// common.ErrTokenExpired, everything else common.ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
