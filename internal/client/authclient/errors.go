package authclient

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("email already registered")
	ErrInvalidInput  = errors.New("invalid input")
)
