// Package models holds the server-side persistent entities.
package models

import "time"

// User is a registered identity. Only hashes of secrets are kept; ID and
// Email never change after creation.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	BiometricKeyHash *string
	CreatedAt        time.Time
}

// HasBiometricKey reports whether the user enrolled a biometric key.
func (u *User) HasBiometricKey() bool {
	return u.BiometricKeyHash != nil && *u.BiometricKeyHash != ""
}
