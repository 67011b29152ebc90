package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/auth"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	result *services.AuthResult
	err    error
	calls  int
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

type fakeAuthenticator struct {
	user *models.User
	err  error
}

func (f *fakeAuthenticator) Authenticate(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

func newRouter(svc AuthService, authn Authenticator) http.Handler {
	return NewHTTPServer("", logging.Nop(), svc, authn, time.Second).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(&fakeAuthService{}, &fakeAuthenticator{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Auth API is running!"}`, rec.Body.String())
}

func TestLogin_Success(t *testing.T) {
	svc := &fakeAuthService{result: &services.AuthResult{AccessToken: "tok", UserID: "u1"}}
	rec := do(t, newRouter(svc, &fakeAuthenticator{}), http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"Abcd123!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"accessToken":"tok","userId":"u1"}`, rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })

	tests := []struct {
		name       string
		coreErr    error
		wantStatus int
		wantMsg    string
	}{
		{"duplicate", common.ErrDuplicateIdentity, http.StatusConflict, "email already registered"},
		{"bad credentials", common.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"store down", assert.AnError, http.StatusInternalServerError, "Internal server error"},
		{"signing", common.ErrSigningMisconfigured, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{err: tt.coreErr}
			rec := do(t, newRouter(svc, &fakeAuthenticator{}), http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"Abcd123!"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, errorResponse{
				Message:    tt.wantMsg,
				StatusCode: tt.wantStatus,
				Timestamp:  "2026-05-01T10:00:00Z",
				Path:       "/auth/register",
			}, resp)
		})
	}
}

func TestValidation_422WithViolations(t *testing.T) {
	svc := &fakeAuthService{}
	h := newRouter(svc, &fakeAuthenticator{})

	rec := do(t, h, http.MethodPost, "/auth/register", `{"email":"nope","password":"weak"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	require.NotEmpty(t, resp.Violations)
	assert.Equal(t, "email", resp.Violations[0].Field)

	rec = do(t, h, http.MethodPost, "/auth/biometric-login", `{"biometricKey":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Zero(t, svc.calls, "core must not see invalid input")
}

func TestDecode_UnknownFieldAndBadBody(t *testing.T) {
	svc := &fakeAuthService{}
	h := newRouter(svc, &fakeAuthenticator{})

	rec := do(t, h, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"x","isAdmin":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "isAdmin", resp.Violations[0].Field)

	rec = do(t, h, http.MethodPost, "/auth/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"x"} {}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, svc.calls)
}

func TestMe(t *testing.T) {
	user := &models.User{ID: "u1", Email: "a@x.com"}

	rec := do(t, newRouter(&fakeAuthService{}, &fakeAuthenticator{user: user}), http.MethodGet, "/auth/me", "",
		"Authorization", "Bearer tok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u1","email":"a@x.com"}`, rec.Body.String())

	rec = do(t, newRouter(&fakeAuthService{}, &fakeAuthenticator{user: user}), http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, newRouter(&fakeAuthService{}, &fakeAuthenticator{err: common.ErrTokenExpired}), http.MethodGet, "/auth/me", "",
		"Authorization", "Bearer tok")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token expired", decodeError(t, rec).Message)
}

func TestRouter_EndToEnd(t *testing.T) {
	hasher, err := cryptox.NewArgon2Hasher(cryptox.Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)
	repo := users.NewMemoryRepository()
	h := newRouter(services.NewAuthService(repo, hasher, tokens, logging.Nop()), auth.NewAuthenticator(tokens, repo))

	rec := do(t, h, http.MethodPost, "/auth/register", `{"email":"b@x.com","password":"Efgh456!","biometricKey":"bio-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg struct {
		AccessToken string `json:"accessToken"`
		UserID      string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	rec = do(t, h, http.MethodPost, "/auth/register", `{"email":"b@x.com","password":"Efgh456!"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/auth/biometric-login", `{"biometricKey":"bio-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), reg.UserID)

	rec = do(t, h, http.MethodPost, "/auth/biometric-login", `{"biometricKey":"bio-2"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/auth/me", "", "Authorization", "Bearer "+reg.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+reg.UserID+`","email":"b@x.com"}`, rec.Body.String())
}
