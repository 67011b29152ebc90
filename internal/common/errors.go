// Package common defines shared constants and sentinel errors used across
// the server, transports and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Input errors. ErrMalformedInput is produced by the validation layer;
	// ErrUnvalidatedInput means a caller skipped validation.
	ErrMalformedInput   = errors.New("malformed input")
	ErrUnvalidatedInput = errors.New("unvalidated input reached the authentication core")

	// Token errors.
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrSigningMisconfigured = errors.New("token signing is misconfigured")

	// Hashing errors.
	ErrMalformedHash = errors.New("malformed hash")
	ErrEmptySecret   = errors.New("empty secret")
)
