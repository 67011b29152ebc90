package api

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BiometricKey string `json:"biometricKey,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BiometricLoginRequest struct {
	BiometricKey string `json:"biometricKey"`
}

// AuthResponse is returned by every successful credential exchange.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
}

type MeRequest struct{}

type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// HealthStatus is the fixed liveness message.
const HealthStatus = "Auth API is running!"
