package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "credkeeper/services"

// Hasher turns a secret into a self-describing hash and checks candidates
// against it. A wrong candidate is (false, nil).
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(encoded, candidate string) (bool, error)
}

// TokenIssuer signs an access token for a user.
type TokenIssuer interface {
	Issue(subject, email string) (string, error)
}

// rehashChecker is optionally implemented by a Hasher.
type rehashChecker interface {
	NeedsRehash(encoded string) (bool, error)
}

type AuthResult struct {
	AccessToken string
	UserID      string
}

// AuthService registers users and exchanges credentials for access tokens.
// It keeps no mutable state of its own; uniqueness is left to the store.
type AuthService struct {
	repo   users.Repository
	hasher Hasher
	tokens TokenIssuer
	log    logging.Logger
	tracer trace.Tracer
}

func NewAuthService(repo users.Repository, hasher Hasher, tokens TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log.With("component", "auth_service"),
		tracer: otel.Tracer(tracerName),
	}
}

// Register creates an account and returns a token for it. biometricKey is
// optional; an empty string means no biometric enrollment.
func (s *AuthService) Register(ctx context.Context, email, password, biometricKey string) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register",
		trace.WithAttributes(attribute.Bool("auth.biometric_enrolled", biometricKey != "")))
	defer func() { endSpan(span, err) }()

	if email == "" || password == "" {
		return nil, common.ErrUnvalidatedInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateIdentity
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: passwordHash}

	if biometricKey != "" {
		bioHash, err := s.hasher.Hash(biometricKey)
		if err != nil {
			return nil, fmt.Errorf("hashing biometric key: %w", err)
		}
		user.BiometricKeyHash = &bioHash
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "biometric", user.HasBiometricKey())

	return s.issue(ctx, user)
}

// Login checks email and password. Unknown email and wrong password produce
// the same common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	if email == "" || password == "" {
		return nil, common.ErrUnvalidatedInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	s.checkRehash(ctx, user.ID, user.PasswordHash)

	return s.issue(ctx, user)
}

// BiometricLogin finds the single enrolled user whose biometric hash matches
// biometricKey. Users are tried oldest first and the scan stops at the first
// match.
func (s *AuthService) BiometricLogin(ctx context.Context, biometricKey string) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.BiometricLogin")
	defer func() { endSpan(span, err) }()

	if biometricKey == "" {
		return nil, common.ErrUnvalidatedInput
	}

	enrolled, err := s.repo.FindAllWithBiometricKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing enrolled users: %w", err)
	}
	span.SetAttributes(attribute.Int("auth.enrolled_users", len(enrolled)))

	for i, user := range enrolled {
		if user.BiometricKeyHash == nil {
			continue
		}
		ok, err := s.hasher.Verify(*user.BiometricKeyHash, biometricKey)
		if err != nil {
			return nil, fmt.Errorf("verifying biometric key: %w", err)
		}
		if ok {
			span.SetAttributes(attribute.Int("auth.candidates_checked", i+1))
			return s.issue(ctx, user)
		}
	}

	return nil, common.ErrInvalidCredentials
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.log.Error(ctx, "token signing failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &AuthResult{AccessToken: token, UserID: user.ID}, nil
}

func (s *AuthService) checkRehash(ctx context.Context, userID, encoded string) {
	rc, ok := s.hasher.(rehashChecker)
	if !ok {
		return
	}
	if need, err := rc.NeedsRehash(encoded); err == nil && need {
		s.log.Debug(ctx, "password hash uses outdated parameters", "user_id", userID)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
