package models

import "testing"

func TestUser_HasBiometricKey(t *testing.T) {
	empty := ""
	hash := "$argon2id$..."

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"nil", User{}, false},
		{"empty", User{BiometricKeyHash: &empty}, false},
		{"set", User{BiometricKeyHash: &hash}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasBiometricKey(); got != tt.want {
				t.Fatalf("HasBiometricKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
