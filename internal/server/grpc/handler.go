package grpc

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/api"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
	"github.com/dmitrijs2005/credkeeper/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {

	if err := validation.ValidateRegister(req.Email, req.Password, req.BiometricKey); err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	result, err := s.auth.Register(ctx, req.Email, req.Password, req.BiometricKey)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	return authResponse(result), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {

	if err := validation.ValidateLogin(req.Email, req.Password); err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	result, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	return authResponse(result), nil
}

func (s *GRPCServer) BiometricLogin(ctx context.Context, req *api.BiometricLoginRequest) (*api.AuthResponse, error) {

	if err := validation.ValidateBiometricLogin(req.BiometricKey); err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	result, err := s.auth.BiometricLogin(ctx, req.BiometricKey)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	return authResponse(result), nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *api.MeRequest) (*api.MeResponse, error) {
	user, ok := userFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return &api.MeResponse{ID: user.ID, Email: user.Email}, nil
}

func (s *GRPCServer) HealthCheck(context.Context, *api.HealthCheckRequest) (*api.HealthCheckResponse, error) {
	return &api.HealthCheckResponse{Status: api.HealthStatus}, nil
}

func authResponse(r *services.AuthResult) *api.AuthResponse {
	return &api.AuthResponse{AccessToken: r.AccessToken, UserID: r.UserID}
}
