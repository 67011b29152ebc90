// Package authclient is the gRPC client for the credkeeper AuthService.
//
// GRPCClient dials the server with the JSON codec, attaches the bearer token
// for authenticated calls and maps gRPC status codes back to sentinel errors
// that callers match with errors.Is: ErrUnauthorized, ErrAlreadyExists,
// ErrInvalidInput and ErrUnavailable.
package authclient
