package grpc

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeAuthService struct {
	result *services.AuthResult
	err    error

	calls int
}

func (f *fakeAuthService) Register(context.Context, string, string, string) (*services.AuthResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeAuthService) Login(context.Context, string, string) (*services.AuthResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeAuthService) BiometricLogin(context.Context, string) (*services.AuthResult, error) {
	f.calls++
	return f.result, f.err
}

// fakeAuthenticator accepts exactly one token.
type fakeAuthenticator struct {
	token string
	user  *models.User
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token != f.token {
		return nil, common.ErrInvalidToken
	}
	return f.user, nil
}
