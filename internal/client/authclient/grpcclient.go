package authclient

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/api"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Session is what a successful register or login hands back.
type Session struct {
	AccessToken string
	UserID      string
}

// Profile is the account behind an access token.
type Profile struct {
	ID    string
	Email string
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      api.AuthServiceClient
}

// NewGRPCClient creates a client for endpointURL. The connection is lazy, so
// an unreachable server surfaces as ErrUnavailable on the first call. Each
// call is bounded by timeout when it is positive.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpointURL, err)
	}
	c.conn = conn
	c.client = api.NewAuthServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerScheme+" "+token)
}

func (c *GRPCClient) Register(ctx context.Context, email, password, biometricKey string) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Register(ctx, &api.RegisterRequest{Email: email, Password: password, BiometricKey: biometricKey})
	if err != nil {
		return nil, mapError(err)
	}
	return &Session{AccessToken: resp.AccessToken, UserID: resp.UserID}, nil
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return &Session{AccessToken: resp.AccessToken, UserID: resp.UserID}, nil
}

func (c *GRPCClient) BiometricLogin(ctx context.Context, biometricKey string) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.BiometricLogin(ctx, &api.BiometricLoginRequest{BiometricKey: biometricKey})
	if err != nil {
		return nil, mapError(err)
	}
	return &Session{AccessToken: resp.AccessToken, UserID: resp.UserID}, nil
}

// Me resolves accessToken to the account it was issued for.
func (c *GRPCClient) Me(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Me(withAccessToken(ctx, accessToken), &api.MeRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return &Profile{ID: resp.ID, Email: resp.Email}, nil
}

// Ping returns nil when the server answers the health check.
func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.HealthCheck(ctx, &api.HealthCheckRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != api.HealthStatus {
		return ErrUnavailable
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
