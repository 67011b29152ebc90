package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/api"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
	"github.com/dmitrijs2005/credkeeper/internal/server/validation"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

var errBadRequestBody = errors.New("invalid request body")

type Handler struct {
	auth   AuthService
	authn  Authenticator
	logger logging.Logger
}

func NewHandler(svc AuthService, authn Authenticator, l logging.Logger) *Handler {
	return &Handler{auth: svc, authn: authn, logger: l}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/biometric-login", h.biometricLogin)
		r.With(h.requireAuth).Get("/me", h.me)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := validation.ValidateRegister(req.Email, req.Password, req.BiometricKey); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password, req.BiometricKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse(result))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := validation.ValidateLogin(req.Email, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse(result))
}

func (h *Handler) biometricLogin(w http.ResponseWriter, r *http.Request) {
	var req api.BiometricLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := validation.ValidateBiometricLogin(req.BiometricKey); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.auth.BiometricLogin(r.Context(), req.BiometricKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse(result))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errors.New("me: no user in context"))
		return
	}
	writeJSON(w, http.StatusOK, api.MeResponse{ID: user.ID, Email: user.Email})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthCheckResponse{Status: api.HealthStatus})
}

func authResponse(r *services.AuthResult) api.AuthResponse {
	return api.AuthResponse{AccessToken: r.AccessToken, UserID: r.UserID}
}

// decodeJSON reads a single JSON object into dst. Fields dst does not declare
// are reported as validation violations.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			if name, uerr := strconv.Unquote(field); uerr == nil {
				field = name
			}
			return &validation.Error{Violations: []validation.Violation{
				{Field: field, Message: fmt.Sprintf("property %s should not exist", field)},
			}}
		}
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}

	if dec.More() {
		return fmt.Errorf("%w: trailing data", errBadRequestBody)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
