// Package api defines the AuthService wire contract shared by the gRPC server
// and its clients: request and response messages, the service descriptor and
// a typed client. Messages travel as JSON through a registered gRPC codec.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "credkeeper.auth.v1.AuthService"

// Full method names, as seen by interceptors.
const (
	AuthService_Register_FullMethodName       = "/" + ServiceName + "/Register"
	AuthService_Login_FullMethodName          = "/" + ServiceName + "/Login"
	AuthService_BiometricLogin_FullMethodName = "/" + ServiceName + "/BiometricLogin"
	AuthService_Me_FullMethodName             = "/" + ServiceName + "/Me"
	AuthService_HealthCheck_FullMethodName    = "/" + ServiceName + "/HealthCheck"
)

type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	BiometricLogin(context.Context, *BiometricLoginRequest) (*AuthResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// UnimplementedAuthServiceServer can be embedded to get Unimplemented answers
// for methods a server does not provide.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedAuthServiceServer) BiometricLogin(context.Context, *BiometricLoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BiometricLogin not implemented")
}

func (UnimplementedAuthServiceServer) Me(context.Context, *MeRequest) (*MeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Me not implemented")
}

func (UnimplementedAuthServiceServer) HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HealthCheck not implemented")
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(AuthService_Register_FullMethodName, AuthServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(AuthService_Login_FullMethodName, AuthServiceServer.Login),
		},
		{
			MethodName: "BiometricLogin",
			Handler:    unaryHandler(AuthService_BiometricLogin_FullMethodName, AuthServiceServer.BiometricLogin),
		},
		{
			MethodName: "Me",
			Handler:    unaryHandler(AuthService_Me_FullMethodName, AuthServiceServer.Me),
		},
		{
			MethodName: "HealthCheck",
			Handler:    unaryHandler(AuthService_HealthCheck_FullMethodName, AuthServiceServer.HealthCheck),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "credkeeper/auth/v1/auth.proto",
}

type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	BiometricLogin(ctx context.Context, in *BiometricLoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*MeResponse, error)
	HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient returns a client that always sends the JSON
// content-subtype.
func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts)
}

func (c *authServiceClient) BiometricLogin(ctx context.Context, in *BiometricLoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_BiometricLogin_FullMethodName, in, opts)
}

func (c *authServiceClient) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeResponse](ctx, c.cc, AuthService_Me_FullMethodName, in, opts)
}

func (c *authServiceClient) HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	return invoke[HealthCheckResponse](ctx, c.cc, AuthService_HealthCheck_FullMethodName, in, opts)
}
