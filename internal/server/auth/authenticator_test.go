package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	users map[string]*models.User
	err   error
}

func (s *stubFinder) FindByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func TestAuthenticator_Authenticate(t *testing.T) {
	m := newManagerAt(t, "secret", time.Now())
	finder := &stubFinder{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@x.com"},
	}}
	a := NewAuthenticator(m, finder)

	tok, err := m.Issue("u1", "a@x.com")
	require.NoError(t, err)

	u, err := a.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestAuthenticator_UnknownSubject(t *testing.T) {
	m := newManagerAt(t, "secret", time.Now())
	a := NewAuthenticator(m, &stubFinder{users: map[string]*models.User{}})

	tok, err := m.Issue("deleted-user", "a@x.com")
	require.NoError(t, err)

	_, err = a.Authenticate(context.Background(), tok)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticator_PropagatesErrors(t *testing.T) {
	m := newManagerAt(t, "secret", time.Now())

	_, err := NewAuthenticator(m, &stubFinder{}).Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	tok, err := m.Issue("u1", "a@x.com")
	require.NoError(t, err)
	dbErr := errors.New("db down")
	_, err = NewAuthenticator(m, &stubFinder{err: dbErr}).Authenticate(context.Background(), tok)
	assert.ErrorIs(t, err, dbErr)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}
