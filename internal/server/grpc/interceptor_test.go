package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/api"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(authn Authenticator) *GRPCServer {
	return NewGRPCServer("", nopLogger{}, &fakeAuthService{}, authn)
}

func withAuthorization(value string) context.Context {
	md := metadata.New(map[string]string{common.AuthorizationHeaderName: value})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_PublicMethod_AllowsWithoutToken(t *testing.T) {
	s := newTestServer(&fakeAuthenticator{})

	info := &grpc.UnaryServerInfo{FullMethod: api.AuthService_Login_FullMethodName}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_Me_MissingToken(t *testing.T) {
	s := newTestServer(&fakeAuthenticator{})
	info := &grpc.UnaryServerInfo{FullMethod: api.AuthService_Me_FullMethodName}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	for _, ctx := range []context.Context{
		context.Background(),
		withAuthorization(""),
		withAuthorization("Basic abc"),
		withAuthorization("Bearer "),
	} {
		_, err := s.accessTokenInterceptor(ctx, nil, info, h)
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
		}
		if status.Convert(err).Message() != "missing token" {
			t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
		}
	}
}

func TestInterceptor_Me_RejectedToken(t *testing.T) {
	tests := []struct {
		name  string
		authn *fakeAuthenticator
	}{
		{"invalid", &fakeAuthenticator{token: "good"}},
		{"expired", &fakeAuthenticator{err: common.ErrTokenExpired}},
		{"deleted user", &fakeAuthenticator{err: common.ErrorUnauthorized}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.authn)
			info := &grpc.UnaryServerInfo{FullMethod: api.AuthService_Me_FullMethodName}

			h := func(ctx context.Context, req interface{}) (interface{}, error) {
				t.Fatal("handler should not be called for a rejected token")
				return nil, nil
			}

			_, err := s.accessTokenInterceptor(withAuthorization("Bearer bad"), nil, info, h)
			if status.Code(err) != codes.Unauthenticated {
				t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
			}
		})
	}
}

func TestInterceptor_Me_ValidToken_PutsUserIntoContext(t *testing.T) {
	user := &models.User{ID: "u1", Email: "a@x.com"}
	s := newTestServer(&fakeAuthenticator{token: "good", user: user})
	info := &grpc.UnaryServerInfo{FullMethod: api.AuthService_Me_FullMethodName}

	var got *models.User
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = userFromContext(ctx)
		return "ok", nil
	}

	if _, err := s.accessTokenInterceptor(withAuthorization("Bearer good"), nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != user {
		t.Fatalf("user not propagated: %+v", got)
	}
}
